package rest

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/transport/advisor"
)

func TestAdvisorHandler_SuggestMove(t *testing.T) {
	h := newTestRouter(t, nil)

	t.Run("Takes the winning cell", func(t *testing.T) {
		// Given: O can complete the middle column
		body := `{"board":["X","O","X","","O","","X","",""],"marker":"O"}`

		// When
		rr := do(t, h, http.MethodPost, "/api/tictactoe-move", body)

		// Then
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var resp advisor.MoveResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 7, resp.Move)
	})

	t.Run("Marker defaults to O", func(t *testing.T) {
		body := `{"board":["O","O","","X","X","","","",""]}`

		rr := do(t, h, http.MethodPost, "/api/tictactoe-move", body)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp advisor.MoveResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Move)
	})

	t.Run("Easy difficulty still picks an empty cell", func(t *testing.T) {
		body := `{"board":["X","O","X","O","X","O","O","X",""],"marker":"X"}`

		rr := do(t, h, http.MethodPost, "/api/tictactoe-move?difficulty=easy", body)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp advisor.MoveResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 8, resp.Move)
	})

	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{name: "Malformed JSON", body: `{"board":`, expected: http.StatusBadRequest},
		{name: "Short board", body: `{"board":["X","O"]}`, expected: http.StatusBadRequest},
		{name: "Missing board", body: `{"marker":"O"}`, expected: http.StatusBadRequest},
		{name: "Unknown symbol", body: `{"board":["Z","","","","","","","",""]}`, expected: http.StatusBadRequest},
		{name: "Unknown marker", body: `{"board":["","","","","","","","",""],"marker":"Q"}`, expected: http.StatusBadRequest},
		{name: "Oversized body", body: `{"board":["` + strings.Repeat("X", 2*maxRequestSize) + `"]}`, expected: http.StatusRequestEntityTooLarge},
		{name: "Full board", body: `{"board":["X","O","X","X","O","O","O","X","X"]}`, expected: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/tictactoe-move", tt.body)

			assert.Equal(t, tt.expected, rr.Code, rr.Body.String())

			var body errorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}
