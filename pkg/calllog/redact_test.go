package calllog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedact_IgnoreAndGlobalKeys(t *testing.T) {
	args := NewArguments(5)
	args.Set("x", 1)
	args.Set("api_key", "k1")
	args.Set("access_token", "t1")
	args.Set("email", "a@example.com")
	args.Set("password", "p1")

	got := Redact(args, "password")

	assert.Equal(t,
		"{'x': 1, 'api_key': '**SECRET**', 'access_token': '**SECRET**', 'email': '**SECRET**', 'password': '**SECRET**'}",
		got.String())
}

func TestRedact_DoesNotMutateInput(t *testing.T) {
	args := NewArguments(2)
	args.Set("api_key", "k1")
	args.Set("x", 1)
	before := args.String()

	_ = Redact(args)

	assert.Equal(t, before, args.String())
	v, _ := args.Get("api_key")
	assert.Equal(t, "k1", v)
}

func TestRedact_Idempotent(t *testing.T) {
	args := NewArguments(2)
	args.Set("api_key", "k1")
	args.Set("token", "t")

	once := Redact(args, "token")
	twice := Redact(once, "token")

	assert.Equal(t, once.String(), twice.String())
}

func TestRedact_EmptyAndNil(t *testing.T) {
	assert.Equal(t, "{}", Redact(NewArguments(0)).String())
	assert.Equal(t, "{}", Redact(nil).String())
}

func TestRedactor_CustomKeysAddToDefaults(t *testing.T) {
	r := Redactor{SecretKeys: []string{"password"}, Sentinel: "***"}

	args := NewArguments(4)
	args.Set("password", "p")
	args.Set("api_key", "k")
	args.Set("email", "a@b.c")
	args.Set("user", "ada")

	assert.Equal(t, "{'password': '***', 'api_key': '***', 'email': '***', 'user': 'ada'}", r.Redact(args).String())
}

func TestRedactor_ZeroValueKeepsDefaults(t *testing.T) {
	args := NewArguments(2)
	args.Set("access_token", "t")
	args.Set("id", 7)

	assert.Equal(t, "{'access_token': '**SECRET**', 'id': 7}", Redactor{}.Redact(args).String())
}

func TestRedactor_EmptySentinelFallsBack(t *testing.T) {
	r := Redactor{SecretKeys: []string{"pin"}}
	args := NewArguments(1)
	args.Set("pin", 1234)

	assert.Equal(t, "{'pin': '**SECRET**'}", r.Redact(args).String())
}

func TestDefaultRedactor_CopiesKeys(t *testing.T) {
	r := DefaultRedactor()
	r.SecretKeys[0] = "changed"

	assert.Equal(t, "api_key", DefaultSecretKeys[0])
}
