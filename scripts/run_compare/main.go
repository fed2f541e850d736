package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

// placement is the stable identity of one scheduled event: the same inputs
// must produce the same set of placements on every run.
type placement struct {
	OfferingID       string  `json:"offering_id"`
	CourseCode       string  `json:"course_code"`
	Day              string  `json:"day"`
	TimeslotID       string  `json:"timeslot_id"`
	SecondTimeslotID *string `json:"second_timeslot_id"`
	RoomID           string  `json:"room_id"`
}

type timetableView struct {
	RunID     string      `json:"run_id"`
	SessionID string      `json:"session_id"`
	Entries   []placement `json:"entries"`
}

type envelope struct {
	Data  *timetableView  `json:"data"`
	Error json.RawMessage `json:"error"`
}

func main() {
	var (
		base    string
		token   string
		runA    string
		runB    string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&token, "token", os.Getenv("UNIPLAN_TOKEN"), "Bearer token (defaults to UNIPLAN_TOKEN)")
	flag.StringVar(&runA, "a", "", "First run ID")
	flag.StringVar(&runB, "b", "", "Second run ID")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	if runA == "" || runB == "" {
		log.Fatal("both -a and -b run IDs are required")
	}

	client := &http.Client{Timeout: timeout}
	viewA, err := fetchTimetable(client, base, token, runA)
	if err != nil {
		log.Fatalf("failed to fetch run %s: %v", runA, err)
	}
	viewB, err := fetchTimetable(client, base, token, runB)
	if err != nil {
		log.Fatalf("failed to fetch run %s: %v", runB, err)
	}

	if viewA.SessionID != viewB.SessionID {
		fmt.Printf("warning: runs belong to different sessions (%s vs %s)\n", viewA.SessionID, viewB.SessionID)
	}

	onlyA, onlyB := diffPlacements(viewA.Entries, viewB.Entries)
	printReport(runA, runB, viewA, viewB, onlyA, onlyB)

	if len(onlyA) > 0 || len(onlyB) > 0 {
		os.Exit(1)
	}
}

func fetchTimetable(client *http.Client, base, token, runID string) (*timetableView, error) {
	url := strings.TrimRight(base, "/") + "/api/v1/runs/" + runID + "/timetable"
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("response carried no timetable")
	}
	return env.Data, nil
}

// diffPlacements keys entries by offering and placement rather than event ID,
// since event IDs change across re-expansion.
func diffPlacements(a, b []placement) (onlyA, onlyB []string) {
	setA := placementSet(a)
	setB := placementSet(b)

	for key := range setA {
		if _, ok := setB[key]; !ok {
			onlyA = append(onlyA, key)
		}
	}
	for key := range setB {
		if _, ok := setA[key]; !ok {
			onlyB = append(onlyB, key)
		}
	}
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	return onlyA, onlyB
}

func placementSet(entries []placement) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		second := ""
		if e.SecondTimeslotID != nil {
			second = *e.SecondTimeslotID
		}
		key := fmt.Sprintf("%s %s @ %s %s+%s in %s", e.CourseCode, e.OfferingID, e.Day, e.TimeslotID, second, e.RoomID)
		set[key] = struct{}{}
	}
	return set
}

func printReport(runA, runB string, viewA, viewB *timetableView, onlyA, onlyB []string) {
	fmt.Println("Run Compare Report")
	fmt.Println("==================")
	fmt.Printf("Run A: %s (%d placements)\n", runA, len(viewA.Entries))
	fmt.Printf("Run B: %s (%d placements)\n", runB, len(viewB.Entries))

	if len(onlyA) == 0 && len(onlyB) == 0 {
		fmt.Println("Result: identical")
		return
	}

	fmt.Printf("Result: %d placements only in A, %d only in B\n", len(onlyA), len(onlyB))
	for _, key := range onlyA {
		fmt.Printf("  A only: %s\n", key)
	}
	for _, key := range onlyB {
		fmt.Printf("  B only: %s\n", key)
	}
}
