package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error { return Success(c, "", fiber.Map{"id": 7}) })
	app.Get("/created", func(c *fiber.Ctx) error { return Created(c, "Course created", nil) })
	app.Get("/boom", func(c *fiber.Ctx) error { return InternalServerError(c) })

	tests := []struct {
		path   string
		status int
		want   map[string]interface{}
	}{
		{"/ok", fiber.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{"id": float64(7)}}},
		{"/created", fiber.StatusCreated, map[string]interface{}{"success": true, "message": "Course created"}},
		{"/boom", fiber.StatusInternalServerError, map[string]interface{}{"success": false, "error": GenericFailure}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
