// models/item_claim.go
package models

import "time"

const ItemTable = "lnf_items"
const ClaimTable = "lnf_claims"

// Item statuses. "claimed" is never accepted from client input; it is set
// by the coordinator when an admin approves a claim.
const (
	ItemStatusLost    = "lost"
	ItemStatusFound   = "found"
	ItemStatusClaimed = "claimed"
)

var ItemCategories = []string{"ID Card", "Vehicle", "Smartphone", "Wallet", "Other"}

// Claim statuses. pending is the only state that can still move.
const (
	ClaimStatusPending   = "pending"
	ClaimStatusApproved  = "approved"
	ClaimStatusRejected  = "rejected"
	ClaimStatusWithdrawn = "withdrawn"
)

type Item struct {
	ID               string  `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string  `gorm:"size:200;not null" json:"title"`
	Description      string  `gorm:"not null" json:"description"`
	Category         string  `gorm:"size:40;not null" json:"category"`
	UniqueIdentifier string  `gorm:"size:120;uniqueIndex;not null" json:"uniqueIdentifier"` // 唯一编号
	ImageURL         string  `gorm:"not null" json:"imageUrl"`
	Status           string  `gorm:"size:20;not null" json:"status"`
	Latitude         float64 `gorm:"not null" json:"latitude"`
	Longitude        float64 `gorm:"not null" json:"longitude"`

	UserID    string  `gorm:"type:uuid;index;not null" json:"userId"`      // reporter
	ClaimedBy *string `gorm:"type:uuid;index" json:"claimedBy,omitempty"`  // null until claimed

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Claim struct {
	ID        string  `gorm:"type:uuid;primaryKey" json:"id"`
	ClaimCode *string `gorm:"size:64;uniqueIndex" json:"claimCode,omitempty"` // stamped for lost-item claims only

	// one claim per (item, claimant), enforced by the compound unique index
	ItemID     string `gorm:"type:uuid;not null;uniqueIndex:lnf_claims_item_claimant" json:"itemId"`
	ClaimantID string `gorm:"type:uuid;not null;index;uniqueIndex:lnf_claims_item_claimant" json:"claimantId"`

	ClaimStatus       string `gorm:"size:20;not null;default:'pending'" json:"claimStatus"`
	ProofURL          string `gorm:"not null" json:"proofUrl"`
	AdditionalDetails string `json:"additionalDetails,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string  { return ItemTable }
func (Claim) TableName() string { return ClaimTable }
