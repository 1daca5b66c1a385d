package cartcookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var ErrInvalid = errors.New("invalid cart cookie")

const maxLines = 100

// Line is one product entry in the guest cart.
type Line struct {
	ProductID string `json:"p"`
	Quantity  int    `json:"q"`
}

// Codec signs the cart lines so the client cannot tamper with them.
// Prices are never stored in the cookie; checkout reprices from the
// database.
type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool
}

func New(secret []byte, name string, secure bool) *Codec {
	return &Codec{Secret: secret, CookieName: name, Secure: secure}
}

// value format: base64(json(lines)).base64(hmac(payload))
func (c *Codec) Encode(lines []Line) (string, error) {
	raw, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	return payload + "." + sign(c.Secret, payload), nil
}

func (c *Codec) Decode(v string) ([]Line, error) {
	parts := strings.Split(v, ".")
	if len(parts) != 2 || parts[0] == "" {
		return nil, ErrInvalid
	}
	if !verify(c.Secret, parts[0], parts[1]) {
		return nil, ErrInvalid
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrInvalid
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, ErrInvalid
	}
	if len(lines) > maxLines {
		return nil, ErrInvalid
	}
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 {
			return nil, ErrInvalid
		}
	}
	return lines, nil
}

// GetLines reads the cart from the request, clearing the cookie when
// it fails verification.
func (c *Codec) GetLines(ctx *gin.Context) []Line {
	v, err := ctx.Cookie(c.CookieName)
	if err != nil || v == "" {
		return nil
	}
	lines, err := c.Decode(v)
	if err != nil {
		c.Clear(ctx)
		return nil
	}
	return lines
}

func (c *Codec) Set(ctx *gin.Context, lines []Line) error {
	val, err := c.Encode(lines)
	if err != nil {
		return err
	}
	maxAge := int((30 * 24 * time.Hour).Seconds())
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, val, maxAge, "/", "", c.Secure, true)
	return nil
}

func (c *Codec) Clear(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, "", -1, "/", "", c.Secure, true)
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verify(secret []byte, payload, sig string) bool {
	return hmac.Equal([]byte(sign(secret, payload)), []byte(sig))
}
