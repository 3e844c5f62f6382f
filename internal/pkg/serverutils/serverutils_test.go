package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"lexi-drafting-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"not found":   {apperror.NotFound("template", "tpl_x"), fiber.StatusNotFound},
		"invalid":     {apperror.Invalid("bad"), fiber.StatusBadRequest},
		"selection":   {apperror.ErrInvalidSelection, fiber.StatusBadRequest},
		"media":       {apperror.ErrUnsupportedMedia, fiber.StatusUnsupportedMediaType},
		"unavailable": {apperror.ErrOracleUnavailable, fiber.StatusServiceUnavailable},
		"fiber":       {fiber.NewError(fiber.StatusConflict, "conflict"), fiber.StatusConflict},
		"other":       {errors.New("db down"), fiber.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

type sample struct {
	Title string `validate:"required"`
	Kind  string `validate:"omitempty,oneof=a b"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sample{Title: "x", Kind: "a"}))

	err := ValidateRequest(sample{Kind: "c"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"sample.Title": "failed on required",
		"sample.Kind":  "failed on oneof=a b",
	}, verr.Fields)
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/missing", func(*fiber.Ctx) error { return apperror.NotFound("template", "tpl_x") })
	app.Get("/boom", func(*fiber.Ctx) error { return errors.New("secret dsn") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.JSON(SuccessResponse("Success", 1)) })

	read := func(path string) (int, BaseResponse[any]) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var out BaseResponse[any]
		require.NoError(t, json.Unmarshal(body, &out))
		return resp.StatusCode, out
	}

	code, body := read("/missing")
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.False(t, body.Success)
	assert.Equal(t, `template "tpl_x": referenced record not found`, body.Message)

	code, body = read("/boom")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body.Message)

	code, body = read("/ok")
	assert.Equal(t, fiber.StatusOK, code)
	assert.True(t, body.Success)
	assert.EqualValues(t, 1, body.Data)
}
