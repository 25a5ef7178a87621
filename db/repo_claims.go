package db

import (
	"context"
	"errors"

	"lost_and_found_tool/models"

	"gorm.io/gorm"
)

// Claims
var ErrDuplicateClaim = errors.New("claim already exists for this item and user")
var ErrClaimNotPending = errors.New("claim is not pending")
var ErrItemUnavailable = errors.New("item not available for claiming")
var ErrNoOpenClaim = errors.New("no claim record for this item")
var ErrItemGone = errors.New("claimed item no longer exists")

// CreateClaim inserts a claim. The pre-check gives a clean error in the
// common case; the compound unique index on (item_id, claimant_id) closes
// the check-then-create race.
func (r *Repo) CreateClaim(ctx context.Context, c *models.Claim) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Claim{}).
			Where("item_id = ? AND claimant_id = ?", c.ItemID, c.ClaimantID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateClaim
		}
		if err := tx.Create(c).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateClaim
			}
			return err
		}
		return nil
	})
}

func (r *Repo) FindClaimByID(ctx context.Context, id string) (*models.Claim, error) {
	var c models.Claim
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) HasClaim(ctx context.Context, itemID, userID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Claim{}).
		Where("item_id = ? AND claimant_id = ?", itemID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *Repo) ListClaimsByClaimant(ctx context.Context, userID string) ([]models.Claim, error) {
	var cs []models.Claim
	err := r.DB.WithContext(ctx).
		Where("claimant_id = ?", userID).
		Order("created_at DESC").
		Find(&cs).Error
	return cs, err
}

func (r *Repo) ListClaims(ctx context.Context) ([]models.Claim, error) {
	var cs []models.Claim
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&cs).Error
	return cs, err
}

// WithdrawClaim flips pending -> withdrawn with a guarded update, so a
// concurrent admin decision cannot be overwritten. The defensive clear of
// item.claimed_by only fires if it already points at the claimant.
func (r *Repo) WithdrawClaim(ctx context.Context, claimID, claimantID string) (*models.Claim, error) {
	var c models.Claim
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, "id = ?", claimID).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Claim{}).
			Where("id = ? AND claim_status = ?", claimID, models.ClaimStatusPending).
			Update("claim_status", models.ClaimStatusWithdrawn)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrClaimNotPending
		}
		c.ClaimStatus = models.ClaimStatusWithdrawn
		return clearClaimant(tx, c.ItemID, claimantID)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DecideClaim applies an admin decision in one transaction: the status flip
// is guarded on the current pending state (exactly one of two concurrent
// decisions wins), and on approval the item is stamped claimed/claimed_by
// in the same transaction.
func (r *Repo) DecideClaim(ctx context.Context, claimID, decision string) (*models.Claim, error) {
	var c models.Claim
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, "id = ?", claimID).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Claim{}).
			Where("id = ? AND claim_status = ?", claimID, models.ClaimStatusPending).
			Update("claim_status", decision)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrClaimNotPending
		}
		c.ClaimStatus = decision

		if decision == models.ClaimStatusApproved {
			if err := setClaimState(tx, c.ItemID, models.ItemStatusClaimed, &c.ClaimantID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// item was deleted underneath the claim; roll the
					// approval back and surface the fault
					return ErrItemGone
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateClaimDetails patches proof/details while the claim is still pending.
func (r *Repo) UpdateClaimDetails(ctx context.Context, claimID string, updates map[string]any) (*models.Claim, error) {
	res := r.DB.WithContext(ctx).Model(&models.Claim{}).
		Where("id = ? AND claim_status = ?", claimID, models.ClaimStatusPending).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrClaimNotPending
	}
	return r.FindClaimByID(ctx, claimID)
}

// DeleteClaim removes the claim and clears the item's claimed_by if it
// pointed at this claimant.
func (r *Repo) DeleteClaim(ctx context.Context, c *models.Claim) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Claim{ID: c.ID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return clearClaimant(tx, c.ItemID, c.ClaimantID)
	})
}

// ClaimFoundItem is the found-item direct claim: take the item (guarded on
// status and an empty claimed_by) and insert the claim record in the same
// transaction. Losing either guard rolls the whole operation back.
func (r *Repo) ClaimFoundItem(ctx context.Context, c *models.Claim) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).
			Where("id = ? AND status = ? AND claimed_by IS NULL", c.ItemID, models.ItemStatusFound).
			Update("claimed_by", c.ClaimantID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrItemUnavailable
		}
		if err := tx.Create(c).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateClaim
			}
			return err
		}
		return nil
	})
}

// UnclaimItem deletes the claimant's claim record and frees the item.
// A set claimed_by without a backing claim row is a consistency fault and is
// reported, not repaired.
func (r *Repo) UnclaimItem(ctx context.Context, itemID, claimantID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("item_id = ? AND claimant_id = ?", itemID, claimantID).
			Delete(&models.Claim{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoOpenClaim
		}
		return clearClaimant(tx, itemID, claimantID)
	})
}
