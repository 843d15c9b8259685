package model

import "time"

// Reward is an item of the reward catalog.
type Reward struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// RewardCatalog lists what users can redeem, cheapest first.
var RewardCatalog = []Reward{
	{Title: "Paper Pen", Description: "An eco-friendly pen made from recycled paper.", Points: 50},
	{Title: "Vegetable Seeds", Description: "A starter pack of seasonal seeds.", Points: 500},
	{Title: "5 Grow Bags", Description: "Durable bags for your new saplings.", Points: 1000},
	{Title: "5 Saplings", Description: "A selection of five young fruit trees.", Points: 1500},
	{Title: "Amazon Gift Voucher", Description: "A ₹500 voucher for your next purchase.", Points: 2000},
}

// FindReward looks a catalog entry up by title.
func FindReward(title string) (Reward, bool) {
	for _, r := range RewardCatalog {
		if r.Title == title {
			return r, true
		}
	}
	return Reward{}, false
}

// Redemption records a reward claimed by a user. A user claims each reward once.
type Redemption struct {
	ID          string    `json:"-" gorm:"type:char(36);primaryKey" bson:"_id"`
	UserID      string    `json:"-" gorm:"type:char(36);not null;uniqueIndex:idx_redemption_user_title" bson:"user_id"`
	Title       string    `json:"title" gorm:"size:255;not null;uniqueIndex:idx_redemption_user_title" bson:"title"`
	Description string    `json:"description" gorm:"size:255" bson:"description"`
	Points      int       `json:"points" gorm:"not null" bson:"points"`
	RedeemedAt  time.Time `json:"redeemedAt" bson:"redeemed_at"`
}
