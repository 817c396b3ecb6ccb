package session

import (
	"context"
	"errors"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotInCart       = errors.New("tour is not in the cart")
)

// Session хранит серверное состояние одного браузера: идентификатор залогиненного
// пользователя и корзину. Корзина — упорядоченный список идентификаторов туров,
// дубликаты допустимы, количество не хранится.
type Session struct {
	ID     string  `json:"-"`
	UserID int64   `json:"user_id"`
	Admin  bool    `json:"is_admin"`
	Cart   []int64 `json:"cart"`
}

func New(id string) *Session {
	return &Session{ID: id}
}

func (s *Session) IsAuthenticated() bool {
	return s.UserID != 0
}

// AddToCart добавляет тур в корзину, повторное добавление создаёт отдельную позицию.
// Существование тура здесь не проверяется.
func (s *Session) AddToCart(tourID int64) {
	s.Cart = append(s.Cart, tourID)
}

// RemoveFromCart удаляет первое вхождение тура из корзины.
func (s *Session) RemoveFromCart(tourID int64) error {
	for i, id := range s.Cart {
		if id == tourID {
			s.Cart = append(s.Cart[:i], s.Cart[i+1:]...)
			return nil
		}
	}
	return ErrNotInCart
}

func (s *Session) ClearCart() {
	s.Cart = nil
}

// ClearIdentity снимает аутентификацию, корзина при этом сохраняется.
func (s *Session) ClearIdentity() {
	s.UserID = 0
	s.Admin = false
}

// Store описывает серверное хранилище сессий.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}
