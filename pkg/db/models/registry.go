package models

// All lists every persisted model in dependency order. Used by AutoMigrate on SQLite.
func All() []any {
	return []any{
		&User{},
		&Session{},
		&Category{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Favorite{},
		&OutboxEvent{},
	}
}
