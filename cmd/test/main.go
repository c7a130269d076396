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
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
)

type TestClient struct {
	baseURL  string
	client   *http.Client
	location string
	niche    string
	lang     string
}

func NewTestClient(baseURL, location, niche, lang string) *TestClient {
	return &TestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 3 * time.Minute,
		},
		location: location,
		niche:    niche,
		lang:     lang,
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the agent")
	testType := flag.String("test", "all", "Test type: all, health, agent-card, session, blueprint")
	location := flag.String("location", "Milano, IT", "Target location")
	niche := flag.String("niche", "Emergency Plumber", "Service niche")
	lang := flag.String("lang", "it", "Output language")
	flag.Parse()

	client := NewTestClient(*baseURL, *location, *niche, *lang)

	printHeader("Rank & Rent Factory - Test Suite")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, *baseURL, colorReset)

	var ok bool
	switch *testType {
	case "all":
		client.runAllTests()
		return
	case "health":
		ok = client.testHealthCheck()
	case "agent-card":
		ok = client.testAgentCard()
	case "session":
		ok = client.testSessionFlow()
	case "blueprint":
		ok = client.testBlueprintTask()
	default:
		printError(fmt.Sprintf("Unknown test type: %s", *testType))
		fmt.Println("\nAvailable tests: all, health, agent-card, session, blueprint")
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests() {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Agent Card", tc.testAgentCard},
		{"Session Flow", tc.testSessionFlow},
		{"Blueprint Task", tc.testBlueprintTask},
	}

	passed := 0
	failed := 0
	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
}

// do sends a request and decodes a JSON body into out when out is non-nil.
func (tc *TestClient) do(method, path string, payload any, out any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(data)
	}
	url := tc.baseURL + path
	fmt.Printf("%s %s\n", method, url)

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, raw, fmt.Errorf("invalid JSON response: %w", err)
		}
	}
	return resp.StatusCode, raw, nil
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	status, body, err := tc.do(http.MethodGet, "/health", nil, nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}
	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testAgentCard() bool {
	printTestHeader("Testing Agent Card Endpoint")

	var card map[string]any
	status, body, err := tc.do(http.MethodGet, "/.well-known/agent.json", nil, &card)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}

	for _, field := range []string{"name", "description", "url", "version", "capabilities", "skills"} {
		if _, ok := card[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	printSuccess("Agent card is valid")
	printJSON(body)
	return true
}

type sessionState struct {
	ID    string `json:"id"`
	State struct {
		Step   string `json:"step"`
		Error  string `json:"error"`
		PlanID string `json:"planId"`
		Logs   []struct {
			Timestamp string `json:"timestamp"`
			Message   string `json:"message"`
			Type      string `json:"type"`
		} `json:"logs"`
	} `json:"state"`
}

func (tc *TestClient) testSessionFlow() bool {
	printTestHeader("Testing Session Flow")

	var sess sessionState
	status, _, err := tc.do(http.MethodPost, "/api/sessions", nil, &sess)
	if err != nil || status != http.StatusCreated {
		printError(fmt.Sprintf("Create session failed: status %d, %v", status, err))
		return false
	}
	fmt.Printf("%sSession:%s %s\n\n", colorCyan, colorReset, sess.ID)

	form := map[string]string{"location": tc.location, "niche": tc.niche, "language": tc.lang}
	status, body, err := tc.do(http.MethodPost, "/api/sessions/"+sess.ID+"/submit", form, &sess)
	if err != nil || status != http.StatusAccepted {
		printError(fmt.Sprintf("Submit failed: status %d, %v", status, err))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	deadline := time.Now().Add(3 * time.Minute)
	for sess.State.Step == "processing" {
		if time.Now().After(deadline) {
			printError("Timed out waiting for the run to finish")
			return false
		}
		time.Sleep(2 * time.Second)
		if _, _, err := tc.do(http.MethodGet, "/api/sessions/"+sess.ID, nil, &sess); err != nil {
			printError(fmt.Sprintf("Poll failed: %v", err))
			return false
		}
	}

	fmt.Printf("\n%sRun Log:%s\n", colorYellow, colorReset)
	for _, entry := range sess.State.Logs {
		fmt.Printf("  [%s] %-7s %s\n", entry.Timestamp, entry.Type, entry.Message)
	}
	fmt.Println()

	if sess.State.Step != "results" {
		printError(fmt.Sprintf("Expected step 'results', got '%s': %s", sess.State.Step, sess.State.Error))
		return false
	}
	printSuccess("Session reached results")

	if sess.State.PlanID == "" {
		printError("Results carry no archived plan id")
		return false
	}
	status, _, err = tc.do(http.MethodGet, "/api/plans/"+sess.State.PlanID+"/assets/src/pages/index.astro", nil, nil)
	if err != nil || status != http.StatusOK {
		printError(fmt.Sprintf("Fetching index.astro failed: status %d, %v", status, err))
		return false
	}
	printSuccess("Archived plan serves src/pages/index.astro")

	status, _, err = tc.do(http.MethodPost, "/api/sessions/"+sess.ID+"/reset", nil, &sess)
	if err != nil || status != http.StatusOK || sess.State.Step != "input" {
		printError(fmt.Sprintf("Reset failed: status %d, step %q, %v", status, sess.State.Step, err))
		return false
	}
	printSuccess("Session reset to input")
	return true
}

func (tc *TestClient) testBlueprintTask() bool {
	printTestHeader("Testing Blueprint Task")

	text := fmt.Sprintf("%s in %s %s", tc.niche, tc.location, tc.lang)
	fmt.Printf("%sRequest text:%s %s\n\n", colorCyan, colorReset, text)

	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      fmt.Sprintf("test-%d", time.Now().Unix()),
		"method":  "message/send",
		"params": map[string]any{
			"message": map[string]any{
				"kind": "message",
				"role": "user",
				"parts": []map[string]any{
					{"kind": "text", "text": text},
				},
			},
			"configuration": map[string]any{
				"blocking":            true,
				"acceptedOutputModes": []string{"text", "data"},
			},
		},
	}

	var response struct {
		Error  json.RawMessage `json:"error"`
		Result struct {
			Status struct {
				State   string `json:"state"`
				Message struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"message"`
			} `json:"status"`
			Artifacts []struct {
				Name string `json:"name"`
			} `json:"artifacts"`
		} `json:"result"`
	}
	status, _, err := tc.do(http.MethodPost, "/a2a/blueprint", request, &response)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}
	if len(response.Error) > 0 {
		printError("Request returned an error")
		printJSON(response.Error)
		return false
	}
	if state := response.Result.Status.State; state != "completed" {
		printError(fmt.Sprintf("Expected state 'completed', got '%s'", state))
		return false
	}

	printSuccess("Blueprint task completed successfully")
	fmt.Printf("\n%sSummary:%s\n", colorGreen, colorReset)
	fmt.Println(strings.Repeat("=", 80))
	for _, p := range response.Result.Status.Message.Parts {
		fmt.Println(p.Text)
	}
	fmt.Println(strings.Repeat("=", 80))

	fmt.Printf("\n%sArtifacts:%s\n", colorPurple, colorReset)
	for _, a := range response.Result.Artifacts {
		fmt.Printf("  %s\n", a.Name)
	}
	return true
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}
