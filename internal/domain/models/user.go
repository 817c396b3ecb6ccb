package models

// User представляет зарегистрированного пользователя
type User struct {
	ID       int64
	Username string
	PassHash []byte
	Admin    bool // доступ к управлению каталогом туров
}
