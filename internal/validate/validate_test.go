package validate

import (
	"strings"
	"testing"
	"time"

	"reviewhub/internal/config"

	"github.com/stretchr/testify/assert"
)

func newValidator() *Validator {
	return New(config.DefaultLimits())
}

func TestUsername_Valid(t *testing.T) {
	v := newValidator()

	for _, name := range []string{"bob", "Bob_42", "user.name", "a+b@c-d", "ME", "mE"} {
		assert.NoError(t, v.Username(name), "username %q should be accepted", name)
	}
}

func TestUsername_RejectsReservedMe(t *testing.T) {
	v := newValidator()
	assert.Error(t, v.Username("me"))
}

func TestUsername_RejectsForbiddenCharacters(t *testing.T) {
	v := newValidator()

	// every character outside [A-Za-z0-9_.@+-] must fail, anywhere in the
	// string, not just as the whole input
	for _, bad := range []string{"bo b", "bob!", "böb", "bob#", "b/ob", "боб", "bob\n", "(bob)", "bob$"} {
		assert.Error(t, v.Username(bad), "username %q should be rejected", bad)
	}
}

func TestUsername_Bounds(t *testing.T) {
	v := newValidator()

	assert.Error(t, v.Username(""))
	assert.NoError(t, v.Username(strings.Repeat("a", 150)))
	assert.Error(t, v.Username(strings.Repeat("a", 151)))
}

func TestEmail(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Email("b@x.com"))
	assert.Error(t, v.Email(""))
	assert.Error(t, v.Email("not-an-email"))
	assert.Error(t, v.Email("two@@x.com"))
	assert.Error(t, v.Email("spaces in@x.com"))

	local := strings.Repeat("a", 250)
	assert.Error(t, v.Email(local+"@x.com"), "overlong email should be rejected")
}

func TestYear(t *testing.T) {
	v := newValidator()
	current := time.Now().Year()

	assert.NoError(t, v.Year(current))
	assert.NoError(t, v.Year(1894))
	assert.Error(t, v.Year(current+1))
}

func TestScore(t *testing.T) {
	v := newValidator()

	for score := 1; score <= 10; score++ {
		assert.NoError(t, v.Score(score))
	}
	assert.Error(t, v.Score(0))
	assert.Error(t, v.Score(11))
	assert.Error(t, v.Score(-3))
}

func TestSlug(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Slug("sci-fi"))
	assert.NoError(t, v.Slug("movies_2020"))
	assert.Error(t, v.Slug(""))
	assert.Error(t, v.Slug("Sci-Fi"))
	assert.Error(t, v.Slug("sci fi"))
	assert.Error(t, v.Slug(strings.Repeat("a", 51)))
}

func TestRole(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Role("user"))
	assert.NoError(t, v.Role("moderator"))
	assert.NoError(t, v.Role("admin"))
	assert.Error(t, v.Role("superuser"))
	assert.Error(t, v.Role(""))
}
