package service

import (
	"context"
	"errors"
	"fmt"

	"lost_and_found_tool/blob"
	"lost_and_found_tool/db"
	"lost_and_found_tool/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Coordinator runs every claim/item transition as a validated multi-entity
// operation: authorization first, then state preconditions, then the blob
// upload, then the paired writes. Writes re-check their precondition at the
// storage layer, so a losing racer comes back with a state error instead of
// clobbering the winner.
type Coordinator struct {
	repo  *db.Repo
	blobs blob.Store
	log   *zap.SugaredLogger
}

func NewCoordinator(repo *db.Repo, blobs blob.Store, log *zap.SugaredLogger) *Coordinator {
	return &Coordinator{repo: repo, blobs: blobs, log: log}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// SubmitClaim starts the lost-item flow: the claim is created pending and
// the item is untouched until an admin decides. A past claim by the same
// user on the same item blocks resubmission regardless of its status, so a
// withdrawn claim cannot be retried.
func (s *Coordinator) SubmitClaim(ctx context.Context, actor Principal, itemID string, proof []byte, proofName, details string) (*models.Claim, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if item.Status != models.ItemStatusLost {
		return nil, fmt.Errorf("%w: only lost items can be claimed this way", ErrInvalidState)
	}
	if len(proof) == 0 {
		return nil, ErrMissingProof
	}
	if exists, err := s.repo.HasClaim(ctx, item.ID, actor.ID); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateClaim
	}

	// upload before any entity mutation; a failed upload aborts cleanly
	proofURL, err := s.blobs.Put(ctx, proofName, proof)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	code := "CLAIM-" + uuid.NewString()
	c := &models.Claim{
		ID:                uuid.NewString(),
		ClaimCode:         &code,
		ItemID:            item.ID,
		ClaimantID:        actor.ID,
		ClaimStatus:       models.ClaimStatusPending,
		ProofURL:          proofURL,
		AdditionalDetails: details,
	}
	if err := s.repo.CreateClaim(ctx, c); err != nil {
		if errors.Is(err, db.ErrDuplicateClaim) {
			return nil, ErrDuplicateClaim
		}
		return nil, err
	}
	s.log.Infow("claim submitted", "claim", c.ID, "code", code, "item", item.ID, "user", actor.ID)
	return c, nil
}

// WithdrawClaim lets the claimant back out while the claim is still pending.
func (s *Coordinator) WithdrawClaim(ctx context.Context, actor Principal, claimID string) (*models.Claim, error) {
	c, err := s.repo.FindClaimByID(ctx, claimID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if !Allowed(ActWithdrawClaim, actor, c.ClaimantID) {
		return nil, ErrForbidden
	}
	if c.ClaimStatus != models.ClaimStatusPending {
		return nil, fmt.Errorf("%w: claim already %s", ErrInvalidState, c.ClaimStatus)
	}
	out, err := s.repo.WithdrawClaim(ctx, claimID, c.ClaimantID)
	if err != nil {
		if errors.Is(err, db.ErrClaimNotPending) {
			return nil, fmt.Errorf("%w: claim is no longer pending", ErrInvalidState)
		}
		return nil, notFoundOr(err)
	}
	s.log.Infow("claim withdrawn", "claim", claimID, "user", actor.ID)
	return out, nil
}

// UpdateClaim replaces details and/or proof of a still-pending claim.
func (s *Coordinator) UpdateClaim(ctx context.Context, actor Principal, claimID string, details *string, proof []byte, proofName string) (*models.Claim, error) {
	c, err := s.repo.FindClaimByID(ctx, claimID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if !Allowed(ActUpdateClaim, actor, c.ClaimantID) {
		return nil, ErrForbidden
	}
	if c.ClaimStatus != models.ClaimStatusPending {
		return nil, fmt.Errorf("%w: only pending claims can be updated", ErrInvalidState)
	}

	updates := map[string]any{}
	if details != nil {
		updates["additional_details"] = *details
	}
	if len(proof) > 0 {
		proofURL, err := s.blobs.Put(ctx, proofName, proof)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpload, err)
		}
		updates["proof_url"] = proofURL
	}
	if len(updates) == 0 {
		return c, nil
	}
	out, err := s.repo.UpdateClaimDetails(ctx, claimID, updates)
	if err != nil {
		if errors.Is(err, db.ErrClaimNotPending) {
			return nil, fmt.Errorf("%w: claim is no longer pending", ErrInvalidState)
		}
		return nil, err
	}
	return out, nil
}

func (s *Coordinator) ListOwnClaims(ctx context.Context, actor Principal) ([]models.Claim, error) {
	return s.repo.ListClaimsByClaimant(ctx, actor.ID)
}

func (s *Coordinator) GetClaim(ctx context.Context, actor Principal, claimID string) (*models.Claim, error) {
	c, err := s.repo.FindClaimByID(ctx, claimID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if !Allowed(ActViewClaim, actor, c.ClaimantID) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *Coordinator) AdminListClaims(ctx context.Context, actor Principal) ([]models.Claim, error) {
	if !Allowed(ActAdminClaims, actor, "") {
		return nil, ErrForbidden
	}
	return s.repo.ListClaims(ctx)
}

func (s *Coordinator) AdminGetClaim(ctx context.Context, actor Principal, claimID string) (*models.Claim, error) {
	if !Allowed(ActAdminClaims, actor, "") {
		return nil, ErrForbidden
	}
	c, err := s.repo.FindClaimByID(ctx, claimID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return c, nil
}

// AdminDecide approves or rejects a pending claim. Approval stamps the item
// claimed/claimedBy in the same storage transaction, and the pending guard
// at the write means exactly one of two concurrent decisions takes effect.
func (s *Coordinator) AdminDecide(ctx context.Context, actor Principal, claimID, decision string) (*models.Claim, error) {
	if !Allowed(ActDecideClaim, actor, "") {
		return nil, ErrForbidden
	}
	if decision != models.ClaimStatusApproved && decision != models.ClaimStatusRejected {
		return nil, ErrInvalidDecision
	}
	c, err := s.repo.FindClaimByID(ctx, claimID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if c.ClaimStatus != models.ClaimStatusPending {
		return nil, fmt.Errorf("%w: claim already %s", ErrInvalidState, c.ClaimStatus)
	}
	out, err := s.repo.DecideClaim(ctx, claimID, decision)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrClaimNotPending):
			return nil, fmt.Errorf("%w: claim is no longer pending", ErrInvalidState)
		case errors.Is(err, db.ErrItemGone):
			return nil, fmt.Errorf("%w: item %s missing for claim %s", ErrConsistency, c.ItemID, claimID)
		}
		return nil, notFoundOr(err)
	}
	s.log.Infow("claim decided", "claim", claimID, "decision", decision, "admin", actor.ID)
	return out, nil
}

// DeleteClaim removes a claim in any status; claimant or admin only.
func (s *Coordinator) DeleteClaim(ctx context.Context, actor Principal, claimID string) error {
	c, err := s.repo.FindClaimByID(ctx, claimID)
	if err != nil {
		return notFoundOr(err)
	}
	if !Allowed(ActDeleteClaim, actor, c.ClaimantID) {
		return ErrForbidden
	}
	if err := s.repo.DeleteClaim(ctx, c); err != nil {
		return notFoundOr(err)
	}
	s.log.Infow("claim deleted", "claim", claimID, "by", actor.ID)
	return nil
}

// ClaimItem is the found-item self-service flow: claim record and the
// item's claimedBy are written in one logical operation, no admin step.
func (s *Coordinator) ClaimItem(ctx context.Context, actor Principal, itemID string, proof []byte, proofName, details string) (*models.Claim, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if item.Status != models.ItemStatusFound {
		return nil, fmt.Errorf("%w: only found items can be claimed directly", ErrInvalidState)
	}
	if item.ClaimedBy != nil {
		return nil, ErrAlreadyClaimed
	}
	if len(proof) == 0 {
		return nil, ErrMissingProof
	}
	if exists, err := s.repo.HasClaim(ctx, item.ID, actor.ID); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateClaim
	}

	proofURL, err := s.blobs.Put(ctx, proofName, proof)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	c := &models.Claim{
		ID:                uuid.NewString(),
		ItemID:            item.ID,
		ClaimantID:        actor.ID,
		ClaimStatus:       models.ClaimStatusPending,
		ProofURL:          proofURL,
		AdditionalDetails: details,
	}
	if err := s.repo.ClaimFoundItem(ctx, c); err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicateClaim):
			return nil, ErrDuplicateClaim
		case errors.Is(err, db.ErrItemUnavailable):
			// guard lost a race; reread to report the right cause
			cur, rerr := s.repo.FindItemByID(ctx, itemID)
			if rerr != nil {
				return nil, notFoundOr(rerr)
			}
			if cur.ClaimedBy != nil {
				return nil, ErrAlreadyClaimed
			}
			return nil, fmt.Errorf("%w: item is no longer claimable", ErrInvalidState)
		}
		return nil, err
	}
	s.log.Infow("item claimed", "item", item.ID, "user", actor.ID)
	return c, nil
}

// UnclaimItem releases a direct claim: the claim record is deleted and
// claimedBy cleared. A set claimedBy without a backing claim record is a
// consistency fault and is surfaced as such.
func (s *Coordinator) UnclaimItem(ctx context.Context, actor Principal, itemID string) (*models.Item, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if item.ClaimedBy == nil {
		return nil, ErrNotClaimed
	}
	if !Allowed(ActUnclaimItem, actor, *item.ClaimedBy) {
		return nil, ErrForbidden
	}
	if err := s.repo.UnclaimItem(ctx, itemID, *item.ClaimedBy); err != nil {
		if errors.Is(err, db.ErrNoOpenClaim) {
			s.log.Errorw("claimedBy set without claim record", "item", itemID, "claimedBy", *item.ClaimedBy)
			return nil, ErrNoClaimRecord
		}
		return nil, err
	}
	s.log.Infow("item unclaimed", "item", itemID, "by", actor.ID)
	return s.repo.FindItemByID(ctx, itemID)
}
