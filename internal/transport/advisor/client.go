package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/entity"
)

const maxResponseSize = 4 << 10

// MoveRequest - body of a move-advisor request.
type MoveRequest struct {
	Board  []string `json:"board" validate:"len=9,dive,omitempty,oneof=X O"`
	Marker string   `json:"marker,omitempty" validate:"omitempty,oneof=X O"`
}

// MoveResponse - successful move-advisor answer.
type MoveResponse struct {
	Move int `json:"move"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Client talks to a move advisor over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

func New(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SuggestMove posts the board and returns the advisor's cell. Transport
// problems and non-2xx answers wrap apperror.ErrAdvisorTransport, unreadable
// answers wrap apperror.ErrAdvisorInvalid. The cell is not checked against
// the board.
func (that *Client) SuggestMove(ctx context.Context, board entity.Board, mark string) (int, error) {
	body, err := json.Marshal(MoveRequest{Board: board[:], Marker: mark})
	if err != nil {
		return 0, fmt.Errorf("could not marshal move request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperror.ErrAdvisorTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := that.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperror.ErrAdvisorTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read response: %w", apperror.ErrAdvisorTransport, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp ErrorResponse
		if json.Unmarshal(payload, &errResp) == nil && errResp.Error != "" {
			return 0, fmt.Errorf("%w: status %d: %s", apperror.ErrAdvisorTransport, resp.StatusCode, errResp.Error)
		}

		return 0, fmt.Errorf("%w: status %d", apperror.ErrAdvisorTransport, resp.StatusCode)
	}

	return parseMove(payload)
}

// parseMove accepts {"move": 5} as well as {"move": "5"}.
func parseMove(payload []byte) (int, error) {
	var resp struct {
		Move json.RawMessage `json:"move"`
	}

	if err := json.Unmarshal(payload, &resp); err != nil {
		return 0, fmt.Errorf("%w: malformed response: %w", apperror.ErrAdvisorInvalid, err)
	}

	if len(resp.Move) == 0 || string(resp.Move) == "null" {
		return 0, fmt.Errorf("%w: response has no move", apperror.ErrAdvisorInvalid)
	}

	raw := string(resp.Move)

	var quoted string
	if json.Unmarshal(resp.Move, &quoted) == nil {
		raw = strings.TrimSpace(quoted)
	}

	cell, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: move %s is not an integer", apperror.ErrAdvisorInvalid, resp.Move)
	}

	return cell, nil
}
