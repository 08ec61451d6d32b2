package entity

import "time"

// Branch representa una sucursal (tienda) entre las que se reparte el stock.
type Branch struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
