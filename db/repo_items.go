package db

import (
	"context"
	"errors"

	"lost_and_found_tool/models"

	"gorm.io/gorm"
)

var ErrDuplicateIdentifier = errors.New("unique identifier already registered")

// Items

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	if err := r.DB.WithContext(ctx).Create(it).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateIdentifier
		}
		return err
	}
	return nil
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *Repo) ListItemsByStatus(ctx context.Context, status string) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *Repo) ListItemsByCategory(ctx context.Context, category string) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// UpdateItemFields patches the given columns and reads the row back.
// Callers are responsible for restricting the patch to user-editable fields;
// claimed_by in particular must never appear here (see SetItemClaimState).
func (r *Repo) UpdateItemFields(ctx context.Context, id string, updates map[string]any) (*models.Item, error) {
	if len(updates) > 0 {
		res := r.DB.WithContext(ctx).Model(&models.Item{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				return nil, ErrDuplicateIdentifier
			}
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindItemByID(ctx, id)
}

// setClaimState stamps status + claimed_by together. Every stamp in this
// package goes through here; nothing else writes the pair. It is never
// driven by raw client input.
func setClaimState(tx *gorm.DB, id, status string, claimedBy *string) error {
	res := tx.Model(&models.Item{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "claimed_by": claimedBy})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// clearClaimant resets claimed_by only when it still points at the given
// user, so a racing re-claim is never clobbered. The single clear path for
// withdraw/delete/unclaim.
func clearClaimant(tx *gorm.DB, itemID, userID string) error {
	return tx.Model(&models.Item{}).
		Where("id = ? AND claimed_by = ?", itemID, userID).
		Update("claimed_by", nil).Error
}

// SetItemClaimState is the trusted claim-state write used by the coordinator.
func (r *Repo) SetItemClaimState(ctx context.Context, id, status string, claimedBy *string) error {
	return setClaimState(r.DB.WithContext(ctx), id, status, claimedBy)
}

// ClearItemClaimant is the standalone form of the defensive clear.
func (r *Repo) ClearItemClaimant(ctx context.Context, itemID, userID string) error {
	return clearClaimant(r.DB.WithContext(ctx), itemID, userID)
}

// DeleteItemCascade removes the item together with every claim that
// references it, in one transaction, so no claim is left dangling.
func (r *Repo) DeleteItemCascade(ctx context.Context, itemID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).Delete(&models.Claim{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Item{ID: itemID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
