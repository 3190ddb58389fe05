package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"rapidxcel/internal/domain"
	applog "rapidxcel/internal/log"
	"rapidxcel/internal/services"
)

const (
	localSession = "session"
	localUser    = "user"

	keyUID   = "uid"
	keyCart  = "cart"
	keyFlash = "flash"
)

// NewSessionStore builds the cookie session store. A nil storage keeps
// sessions in process memory.
func NewSessionStore(ttl time.Duration, secure bool, storage fiber.Storage) *session.Store {
	return session.New(session.Config{
		Expiration:     ttl,
		Storage:        storage,
		KeyLookup:      "cookie:rx_session",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
	})
}

// Sessions loads the session once per request, attaches the logged-in user
// and saves the session after the handler ran.
func Sessions(store *session.Store, auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		c.Locals(localSession, sess)
		if uid, _ := sess.Get(keyUID).(string); uid != "" {
			u, err := auth.CurrentUser(uid)
			if err == nil {
				c.Locals(localUser, u)
			} else {
				applog.Security(c, "session.user.stale", map[string]any{"uid": uid})
				sess.Delete(keyUID)
			}
		}

		err = c.Next()
		if serr := sess.Save(); serr != nil {
			applog.Error(c, "session.save.fail", serr, nil)
			if err == nil {
				err = serr
			}
		}
		return err
	}
}

func sessionOf(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(localSession).(*session.Session)
	return sess
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(localUser).(*domain.User)
	return u
}

// login binds u to a fresh session id.
func login(c *fiber.Ctx, u *domain.User) error {
	sess := sessionOf(c)
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(keyUID, u.ID)
	c.Locals(localUser, u)
	return nil
}

// logout drops every session value, the cart included, and rotates the id.
func logout(c *fiber.Ctx) error {
	c.Locals(localUser, nil)
	return sessionOf(c).Reset()
}

func loadCart(c *fiber.Ctx) domain.Cart {
	var cart domain.Cart
	raw, _ := sessionOf(c).Get(keyCart).(string)
	if raw == "" {
		return cart
	}
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		applog.Error(c, "cart.decode.fail", err, nil)
		return domain.Cart{}
	}
	return cart
}

func saveCart(c *fiber.Ctx, cart domain.Cart) {
	sess := sessionOf(c)
	if cart.Empty() {
		sess.Delete(keyCart)
		return
	}
	b, _ := json.Marshal(cart)
	sess.Set(keyCart, string(b))
}

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func flash(c *fiber.Ctx, kind, msg string) {
	sess := sessionOf(c)
	if sess == nil {
		return
	}
	var msgs []Flash
	if raw, _ := sess.Get(keyFlash).(string); raw != "" {
		_ = json.Unmarshal([]byte(raw), &msgs)
	}
	msgs = append(msgs, Flash{Kind: kind, Message: msg})
	b, _ := json.Marshal(msgs)
	sess.Set(keyFlash, string(b))
}

func takeFlashes(c *fiber.Ctx) []Flash {
	sess := sessionOf(c)
	if sess == nil {
		return nil
	}
	raw, _ := sess.Get(keyFlash).(string)
	if raw == "" {
		return nil
	}
	sess.Delete(keyFlash)
	var msgs []Flash
	_ = json.Unmarshal([]byte(raw), &msgs)
	return msgs
}
