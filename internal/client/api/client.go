package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"chessgrid/internal/client/display"
	"chessgrid/internal/core"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Games   int    `json:"games"`
	Storage string `json:"storage"`
}

// APIError is a non-2xx response decoded from the server error body
type APIError struct {
	Status int
	Body   core.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Code == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (%d): %s", e.Body.Code, e.Status, e.Body.Error)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	Out        io.Writer
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			// Longer than the server long-poll window
			Timeout: 30 * time.Second,
		},
		Out: os.Stdout,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) doRequest(method, path, token string, body, result any) error {
	var bodyReader io.Reader
	var bodyData []byte
	if body != nil {
		var err error
		if bodyData, err = json.Marshal(body); err != nil {
			return err
		}
		bodyReader = bytes.NewReader(bodyData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	fmt.Fprintf(c.Out, "\n%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
	if c.Verbose && len(bodyData) > 0 {
		fmt.Fprintf(c.Out, "%sRequest Body:%s\n%s\n", display.Cyan, display.Reset, pretty(bodyData))
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		fmt.Fprintf(c.Out, "%s[ERROR] %s%s\n", display.Red, err.Error(), display.Reset)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.Green
	if resp.StatusCode >= 400 {
		statusColor = display.Red
	}
	fmt.Fprintf(c.Out, "%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)
	if c.Verbose && len(respBody) > 0 {
		fmt.Fprintf(c.Out, "%sResponse Body:%s\n%s\n", display.Cyan, display.Reset, pretty(respBody))
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		json.Unmarshal(respBody, &apiErr.Body)
		if apiErr.Body.Details != "" {
			fmt.Fprintf(c.Out, "%sDetails: %s%s\n", display.Red, apiErr.Body.Details, display.Reset)
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			fmt.Fprintf(c.Out, "%sRaw response: %s%s\n", display.Red, string(respBody), display.Reset)
			return fmt.Errorf("response parse error: %w", err)
		}
	}

	return nil
}

func pretty(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}

// API Methods

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(http.MethodGet, "/health", "", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(req core.CreateGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games", "", req, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID, "", nil, &resp)
	return &resp, err
}

// PollGame blocks server-side until the move count differs from moveCount
func (c *Client) PollGame(gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("/api/v1/games/%s?wait=true&moveCount=%d", gameID, moveCount)
	err := c.doRequest(http.MethodGet, path, "", nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(http.MethodDelete, "/api/v1/games/"+gameID, "", nil, nil)
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID+"/board", "", nil, &resp)
	return &resp, err
}

func (c *Client) LegalMoves(gameID string, sq core.SquareRef) (*core.MovesResponse, error) {
	var resp core.MovesResponse
	path := fmt.Sprintf("/api/v1/games/%s/moves?row=%d&col=%d", gameID, sq.Row, sq.Col)
	err := c.doRequest(http.MethodGet, path, "", nil, &resp)
	return &resp, err
}

// Threats lists squares attacked by color, "" for the side not to move
func (c *Client) Threats(gameID, color string) (*core.ThreatsResponse, error) {
	var resp core.ThreatsResponse
	path := "/api/v1/games/" + gameID + "/threats"
	if color != "" {
		path += "?color=" + color
	}
	err := c.doRequest(http.MethodGet, path, "", nil, &resp)
	return &resp, err
}

func (c *Client) Select(gameID, token string, sq core.SquareRef) (*core.SelectResponse, error) {
	var resp core.SelectResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/select", token, core.SelectRequest{Square: sq}, &resp)
	return &resp, err
}

func (c *Client) MakeMove(gameID, token string, from, to core.SquareRef) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/moves", token, core.MoveRequest{From: from, To: to}, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/undo", "", core.UndoRequest{Count: count}, &resp)
	return &resp, err
}

// RawRequest sends an arbitrary request for debugging, printing the body
func (c *Client) RawRequest(method, path, token, body string) error {
	var bodyData any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			bodyData = body
		}
	}

	verbose := c.Verbose
	c.Verbose = true
	defer func() { c.Verbose = verbose }()
	return c.doRequest(method, path, token, bodyData, nil)
}
