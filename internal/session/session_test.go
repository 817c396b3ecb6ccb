package session_test

import (
	"testing"

	"github.com/linemk/tour-booking/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestCart_AddKeepsDuplicates(t *testing.T) {
	sess := session.New("sid-1")

	// повторное добавление того же тура даёт отдельную позицию
	sess.AddToCart(5)
	sess.AddToCart(5)
	sess.AddToCart(7)

	assert.Equal(t, []int64{5, 5, 7}, sess.Cart, "cart should keep duplicates in order")
}

func TestCart_RemoveFirstMatch(t *testing.T) {
	sess := session.New("sid-1")
	sess.AddToCart(5)
	sess.AddToCart(5)
	sess.AddToCart(7)

	err := sess.RemoveFromCart(5)
	assert.NoError(t, err)
	assert.Equal(t, []int64{5, 7}, sess.Cart, "only the first occurrence should be removed")
}

func TestCart_RemoveMissing(t *testing.T) {
	sess := session.New("sid-1")
	sess.AddToCart(7)

	err := sess.RemoveFromCart(42)
	assert.ErrorIs(t, err, session.ErrNotInCart)
	assert.Equal(t, []int64{7}, sess.Cart, "cart should stay intact on a failed removal")
}

func TestCart_Clear(t *testing.T) {
	sess := session.New("sid-1")
	sess.AddToCart(1)
	sess.AddToCart(2)

	sess.ClearCart()
	assert.Empty(t, sess.Cart)
}

func TestClearIdentity_KeepsCart(t *testing.T) {
	sess := session.New("sid-1")
	sess.UserID = 10
	sess.Admin = true
	sess.AddToCart(3)

	// выход из аккаунта не очищает корзину
	sess.ClearIdentity()
	assert.False(t, sess.IsAuthenticated())
	assert.False(t, sess.Admin)
	assert.Equal(t, []int64{3}, sess.Cart)
}
