package models

// Tour представляет тур из каталога
type Tour struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Duration    int    `json:"duration"` // длительность в днях
	Price       int    `json:"price"`
	Image       string `json:"image,omitempty"` // имя файла в каталоге загрузок, может быть пустым
}
