package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureID assigns a fresh UUID to rows created without one.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (c *Company) BeforeCreate(tx *gorm.DB) error   { ensureID(&c.ID); return nil }
func (u *User) BeforeCreate(tx *gorm.DB) error      { ensureID(&u.ID); return nil }
func (c *Customer) BeforeCreate(tx *gorm.DB) error  { ensureID(&c.ID); return nil }
func (p *Product) BeforeCreate(tx *gorm.DB) error   { ensureID(&p.ID); return nil }
func (o *Order) BeforeCreate(tx *gorm.DB) error     { ensureID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error { ensureID(&i.ID); return nil }
func (i *Invoice) BeforeCreate(tx *gorm.DB) error   { ensureID(&i.ID); return nil }

// All lists every persisted model in dependency order, for migrations.
func All() []interface{} {
	return []interface{}{
		&Company{},
		&User{},
		&Customer{},
		&Product{},
		&Order{},
		&OrderItem{},
		&Invoice{},
	}
}
