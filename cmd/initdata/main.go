package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// ----------------------------------------------------------------------------
// Config ---------------------------------------------------------------------
var (
	baseURL = flag.String("url", env("API_BASE_URL", "http://localhost:8080"), "Server base URL")
	nUsers  = flag.Int("users", envInt("USERS", 10), "How many users to create")
	nPosts  = flag.Int("posts", envInt("POSTS", 50), "How many posts to create in total")
	pass    = flag.String("pass", env("PASSWORD", "Password123"), "Password for every seeded user")
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		i, err := fmt.Sscan(v, &i)
		if err != nil {
			return def
		}
		if i > 0 {
			return i
		}
	}
	return def
}

// ----------------------------------------------------------------------------
// HTTP helpers ---------------------------------------------------------------
func postJSON(path string, body any, hdr map[string]string) (*http.Response, error) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, *baseURL+path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	return http.DefaultClient.Do(req)
}

func must(body io.ReadCloser) []byte {
	defer body.Close()
	data, _ := io.ReadAll(body)
	return data
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// ----------------------------------------------------------------------------
// Main -----------------------------------------------------------------------
func main() {
	flag.Parse()
	gofakeit.Seed(time.Now().UnixNano())

	fmt.Printf("Seeding %d users and %d posts on %s\n", *nUsers, *nPosts, *baseURL)

	tokens := make([]string, 0, *nUsers)
	for i := 0; i < *nUsers; i++ {
		token, err := registerUser()
		if err != nil {
			fmt.Fprintln(os.Stderr, "FATAL:", err)
			os.Exit(1)
		}
		if err := createProfile(token); err != nil {
			fmt.Fprintln(os.Stderr, "FATAL:", err)
			os.Exit(1)
		}
		tokens = append(tokens, token)
	}
	fmt.Printf("• created %d users with profiles\n", len(tokens))

	if err := createPosts(tokens, *nPosts); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	fmt.Println("✔ done")
}

// ----------------------------------------------------------------------------
// Step 1 – register a fresh user ---------------------------------------------
func registerUser() (string, error) {
	payload := map[string]string{
		"name":     gofakeit.Name(),
		"email":    gofakeit.Email(),
		"password": *pass,
	}

	resp, err := postJSON("/api/users", payload, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("register failed (%d): %s", resp.StatusCode, must(resp.Body))
	}
	var r struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(must(resp.Body), &r)
	return r.Token, nil
}

// ----------------------------------------------------------------------------
// Step 2 – give the user a developer profile ---------------------------------
func createProfile(token string) error {
	skills := []string{
		gofakeit.ProgrammingLanguage(),
		gofakeit.ProgrammingLanguage(),
		gofakeit.ProgrammingLanguage(),
	}
	profile := map[string]any{
		"status":   gofakeit.JobTitle(),
		"skills":   strings.Join(skills, ","),
		"company":  gofakeit.Company(),
		"location": gofakeit.City(),
		"bio":      gofakeit.Sentence(10),
	}

	resp, err := postJSON("/api/profile", profile, bearer(token))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("create profile failed (%d): %s", resp.StatusCode, must(resp.Body))
	}
	must(resp.Body)
	return nil
}

// ----------------------------------------------------------------------------
// Step 3 – create posts round-robin across users -----------------------------
func createPosts(tokens []string, total int) error {
	for i := 1; i <= total; i++ {
		token := tokens[i%len(tokens)]
		post := map[string]any{
			"text": gofakeit.Paragraph(1, 3, 40, " "),
		}

		resp, err := postJSON("/api/posts", post, bearer(token))
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("create post %d failed (%d): %s", i, resp.StatusCode, must(resp.Body))
		}
		must(resp.Body)

		if i%50 == 0 || i == total {
			fmt.Printf("  … %d/%d\n", i, total)
		}
	}
	return nil
}
