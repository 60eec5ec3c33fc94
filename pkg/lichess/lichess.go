// Package lichess talks to the Lichess API to push curated PGN files into an
// existing study, one game per chapter.
package lichess

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/tidwall/gjson"

	"github.com/openingtools/pgnc/internal/utils"
	"github.com/openingtools/pgnc/pkg/movetree"
)

const apiBase = "https://lichess.org/api"

type Client struct {
	token string
	http  *retryablehttp.Client
	base  string
}

func NewClient(token string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = log.New(io.Discard, "", 0)
	return &Client{token: token, http: rc, base: apiBase}
}

func (c *Client) do(req *retryablehttp.Request) ([]byte, error) {
	if c.token == "" {
		return nil, fmt.Errorf("not authenticated, create a token at https://lichess.org/account/oauth/token/create")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("lichess API error: %s", msg)
	}
	return body, nil
}

// Account verifies the token and returns the account username.
func (c *Client) Account() (string, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, c.base+"/account", nil)
	if err != nil {
		return "", err
	}
	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "username").String(), nil
}

// ImportPGNToStudy imports PGN content into an existing study as new
// chapters. The study must already exist on lichess.org.
func (c *Client) ImportPGNToStudy(studyID, pgn string) error {
	form := url.Values{"pgn": {pgn}}
	req, err := retryablehttp.NewRequest(http.MethodPost, c.base+"/study/"+studyID+"/import-pgn", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if _, err := c.do(req); err != nil {
		return fmt.Errorf("failed to import PGN to study %s: %w", studyID, err)
	}
	return nil
}

// StudyURL returns the public URL of a study.
func StudyURL(studyID string) string {
	return "https://lichess.org/study/" + studyID
}

func tokenFilePath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pgnc", "lichess_token"), nil
}

// SaveToken stores the API token under ~/.pgnc with restrictive permissions.
func SaveToken(token string) (string, error) {
	path, err := tokenFilePath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// LoadToken reads a previously saved API token. Returns "" when none exists.
func LoadToken() string {
	path, err := tokenFilePath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Upload pushes every game of a PGN file into the study as its own chapter.
// A failed chapter is logged and skipped; the rest still go up. Returns the
// number of chapters uploaded.
func Upload(pgnPath, studyID, token string) (int, error) {
	if studyID == "" {
		return 0, fmt.Errorf("study ID is required, create a study on lichess.org and pass its ID")
	}
	if !strings.HasSuffix(pgnPath, ".pgn") {
		return 0, fmt.Errorf("file must be a PGN file: %s", pgnPath)
	}

	client := NewClient(token)
	username, err := client.Account()
	if err != nil {
		return 0, fmt.Errorf("authentication failed: %w", err)
	}
	utils.Log.Infof("authenticated as %s", username)

	games, err := movetree.ReadFile(pgnPath)
	if err != nil {
		return 0, fmt.Errorf("failed to parse PGN file: %w", err)
	}
	if len(games) == 0 {
		return 0, fmt.Errorf("no games found in %s", pgnPath)
	}

	uploaded := 0
	for i, g := range games {
		name := chapterName(g, i+1)
		utils.Log.Infof("[%d/%d] uploading %s", i+1, len(games), name)

		if err := client.ImportPGNToStudy(studyID, movetree.GameString(g)); err != nil {
			utils.Log.Errorf("chapter %s failed: %v", name, err)
			continue
		}
		uploaded++
	}

	utils.Log.Infof("upload complete: %s", StudyURL(studyID))
	return uploaded, nil
}

func chapterName(g *movetree.Game, idx int) string {
	white := g.Tag("White")
	black := g.Tag("Black")
	if white == "" && black == "" {
		return fmt.Sprintf("Chapter %d", idx)
	}
	return white + " vs " + black
}
