package validation

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/shhhinnovations/cryptokit/errors"
)

type tokenRequest struct {
	Salt       string `json:"salt"`
	Data       string `json:"data" validate:"required"`
	TTLSeconds int    `json:"ttl_seconds" validate:"gt=0,lte=86400"`
}

type cipherSection struct {
	PassPhrase string `mapstructure:"pass_phrase" validate:"notblank"`
	InitVector string `mapstructure:"init_vector" validate:"len=16"`
}

type appSection struct {
	Cipher cipherSection `mapstructure:"encryption"`
	Mode   string        `mapstructure:"mode" validate:"oneof=a b"`
}

func fieldsOf(t *testing.T, err error) []FieldError {
	t.Helper()
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("code = %s, want %s", appErr.Code, errors.ErrCodeInvalidInput)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok {
		t.Fatalf("expected fields detail, got %v", appErr.Details)
	}
	return fields
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		fields map[string]string
	}{
		{
			name: "valid request",
			in:   tokenRequest{Data: "user@example.com", TTLSeconds: 60},
		},
		{
			name:   "missing data",
			in:     tokenRequest{TTLSeconds: 60},
			fields: map[string]string{"data": "is required"},
		},
		{
			name: "bad ttl",
			in:   tokenRequest{Data: "x", TTLSeconds: 0},
			fields: map[string]string{
				"ttl_seconds": "must be greater than 0",
			},
		},
		{
			name: "nested config fields",
			in:   appSection{Cipher: cipherSection{PassPhrase: "  ", InitVector: "short"}, Mode: "c"},
			fields: map[string]string{
				"encryption.pass_phrase": "must not be blank",
				"encryption.init_vector": "must be exactly 16 characters",
				"mode":                   "must be one of: a b",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if len(tc.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			got := map[string]string{}
			for _, f := range fieldsOf(t, err) {
				got[f.Field] = f.Message
			}
			for field, msg := range tc.fields {
				if got[field] != msg {
					t.Errorf("%s: got %q, want %q", field, got[field], msg)
				}
			}
		})
	}
}

func TestValidate_NonStruct(t *testing.T) {
	err := Validate("not a struct")
	if err == nil {
		t.Fatal("expected error")
	}
	if !stderrors.Is(err, &errors.AppError{Code: errors.ErrCodeInvalidInput}) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidator(t *testing.T) {
	v := New()
	v.Required("hmac.key", "").
		Required("name", "cryptokit").
		Length("encryption.init_vector", "1234567890123456", 16).
		Length("iv", "ü23", 16).
		OneOf("algorithm", "des", []string{"rijndael", "passthrough"}).
		OneOf("optional", "", []string{"x"}).
		Custom(false, "server.port", "must be set when enabled")

	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	want := []string{"hmac.key", "iv", "algorithm", "server.port"}
	got := v.Errors()
	if len(got) != len(want) {
		t.Fatalf("errors = %v, want fields %v", got, want)
	}
	for i, f := range want {
		if got[i].Field != f {
			t.Errorf("error %d field = %s, want %s", i, got[i].Field, f)
		}
	}

	err := v.Validate()
	if err == nil || !strings.Contains(err.Error(), "hmac.key: is required") {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidator_Empty(t *testing.T) {
	if err := New().Required("a", "x").Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidator_Merge(t *testing.T) {
	v := New()
	v.Merge("ignored", nil)
	v.Merge("encryption", Validate(tokenRequest{TTLSeconds: 1}))
	v.Merge("encryption", errors.InvalidArgument("initVector", "must be exactly 16 characters"))
	v.Merge("logging", stderrors.New("logging.level must be one of [debug]"))

	got := v.Errors()
	if len(got) != 3 {
		t.Fatalf("errors = %v", got)
	}
	if got[0].Field != "data" || got[1].Field != "initVector" || got[2].Field != "logging" {
		t.Errorf("unexpected fields: %v", got)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"PassPhrase": "pass_phrase",
		"TTL":        "t_t_l",
		"salt":       "salt",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
