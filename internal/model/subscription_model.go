package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subscription struct {
	Id                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                uuid.UUID `gorm:"type:uuid;not null;index"`
	Type                  string    `gorm:"type:varchar(20);not null;default:'free'"`
	Status                string    `gorm:"type:varchar(20);not null;default:'active'"`
	PaymentStatus         string    `gorm:"type:varchar(20);not null;default:'pending'"`
	CurrentPeriodStart    time.Time `gorm:"not null"`
	CurrentPeriodEnd      time.Time `gorm:"not null;index"`
	MidtransOrderId       *string   `gorm:"type:varchar(100);index"`
	MidtransTransactionId *string   `gorm:"type:varchar(100)"`
	CreatedAt             time.Time `gorm:"autoCreateTime"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime"`
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
