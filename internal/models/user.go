package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	Login     string    `json:"login"` // unique, case-insensitive
	Role      Role      `json:"nivelAcesso"`
	Active    bool      `json:"ativo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
