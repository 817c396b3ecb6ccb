package models

import "time"

// Order представляет оформленный заказ: данные поездки плюс набор туров на момент оформления.
// Туры связаны через таблицу order_tours; при удалении тура из каталога связка остаётся висячей,
// поэтому Tours заполняется только существующими турами.
type Order struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	NumOfPeople int       `json:"num_of_people"`
	Date        time.Time `json:"date"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Tours       []*Tour   `json:"tours"`
}
