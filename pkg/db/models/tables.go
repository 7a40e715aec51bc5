package models

// Tables lists every table the API owns, in dependency order.
func Tables() []any {
	return []any{
		&Account{},
		&Profile{},
		&WishlistEntry{},
		&ItemDiscount{},
	}
}
