package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"lost_and_found_tool/blob"
	"lost_and_found_tool/db"
	"lost_and_found_tool/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemService owns item CRUD. Claim-state transitions are not reachable
// from here; they go through the Coordinator only.
type ItemService struct {
	repo  *db.Repo
	blobs blob.Store
	log   *zap.SugaredLogger
}

func NewItemService(repo *db.Repo, blobs blob.Store, log *zap.SugaredLogger) *ItemService {
	return &ItemService{repo: repo, blobs: blobs, log: log}
}

type CreateItemInput struct {
	Title            string
	Description      string
	Category         string
	UniqueIdentifier string
	Status           string
	Latitude         *float64
	Longitude        *float64
	Image            []byte
	ImageName        string
}

func (in CreateItemInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return validationf("title is required")
	case strings.TrimSpace(in.Description) == "":
		return validationf("description is required")
	case strings.TrimSpace(in.UniqueIdentifier) == "":
		return validationf("uniqueIdentifier is required")
	case in.Latitude == nil || in.Longitude == nil:
		return validationf("latitude and longitude are required")
	case len(in.Image) == 0:
		return validationf("image is required")
	}
	if !slices.Contains(models.ItemCategories, in.Category) {
		return validationf("category must be one of: %s", strings.Join(models.ItemCategories, ", "))
	}
	if in.Status != models.ItemStatusLost && in.Status != models.ItemStatusFound {
		return validationf("status must be 'lost' or 'found'")
	}
	return nil
}

func (s *ItemService) CreateItem(ctx context.Context, actor Principal, in CreateItemInput) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	imageURL, err := s.blobs.Put(ctx, in.ImageName, in.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	it := &models.Item{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(in.Title),
		Description:      in.Description,
		Category:         in.Category,
		UniqueIdentifier: strings.TrimSpace(in.UniqueIdentifier),
		ImageURL:         imageURL,
		Status:           in.Status,
		Latitude:         *in.Latitude,
		Longitude:        *in.Longitude,
		UserID:           actor.ID,
	}
	if err := s.repo.CreateItem(ctx, it); err != nil {
		if errors.Is(err, db.ErrDuplicateIdentifier) {
			return nil, fmt.Errorf("%w: uniqueIdentifier already registered", ErrValidation)
		}
		return nil, err
	}
	s.log.Infow("item reported", "item", it.ID, "status", it.Status, "user", actor.ID)
	return it, nil
}

func (s *ItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	it, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return it, nil
}

func (s *ItemService) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *ItemService) ListItemsByStatus(ctx context.Context, status string) ([]models.Item, error) {
	if status != models.ItemStatusLost && status != models.ItemStatusFound {
		return nil, validationf("status must be 'lost' or 'found'")
	}
	return s.repo.ListItemsByStatus(ctx, status)
}

func (s *ItemService) ListItemsByCategory(ctx context.Context, category string) ([]models.Item, error) {
	if !slices.Contains(models.ItemCategories, category) {
		return nil, validationf("category must be one of: %s", strings.Join(models.ItemCategories, ", "))
	}
	return s.repo.ListItemsByCategory(ctx, category)
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *ItemService) ItemLocation(ctx context.Context, id string) (*Location, error) {
	it, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &Location{Latitude: it.Latitude, Longitude: it.Longitude}, nil
}

type UpdateItemInput struct {
	Title       *string
	Description *string
	Category    *string
	Status      *string
	Latitude    *float64
	Longitude   *float64
}

// UpdateItem patches user-editable fields. Only the reporter may patch, and
// admins get no override for generic edits. claimedBy is not patchable at
// all, and status can only move between the reportable values, never to
// "claimed" -- that transition belongs to the Coordinator.
func (s *ItemService) UpdateItem(ctx context.Context, actor Principal, id string, in UpdateItemInput) (*models.Item, error) {
	it, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if !Allowed(ActUpdateItem, actor, it.UserID) {
		return nil, ErrForbidden
	}

	updates := map[string]any{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, validationf("title cannot be empty")
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Category != nil {
		if !slices.Contains(models.ItemCategories, *in.Category) {
			return nil, validationf("category must be one of: %s", strings.Join(models.ItemCategories, ", "))
		}
		updates["category"] = *in.Category
	}
	if in.Status != nil {
		if *in.Status != models.ItemStatusLost && *in.Status != models.ItemStatusFound {
			return nil, validationf("status must be 'lost' or 'found'")
		}
		updates["status"] = *in.Status
	}
	if in.Latitude != nil {
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		updates["longitude"] = *in.Longitude
	}

	out, err := s.repo.UpdateItemFields(ctx, id, updates)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return out, nil
}

// DeleteItem removes the item and cascades over its claims so none is left
// referencing a gone item. The stored image is cleaned up best-effort.
func (s *ItemService) DeleteItem(ctx context.Context, actor Principal, id string) error {
	it, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return notFoundOr(err)
	}
	if !Allowed(ActDeleteItem, actor, it.UserID) {
		return ErrForbidden
	}
	if err := s.repo.DeleteItemCascade(ctx, id); err != nil {
		return notFoundOr(err)
	}
	if err := s.blobs.Remove(ctx, it.ImageURL); err != nil {
		s.log.Warnw("image cleanup failed", "item", id, "url", it.ImageURL, "error", err)
	}
	s.log.Infow("item deleted", "item", id, "by", actor.ID)
	return nil
}
