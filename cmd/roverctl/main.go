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

const usage = `usage: roverctl [-addr host:port] <command>

commands:
  connect               connect the rover link
  disconnect            disconnect the rover link
  on | off              set motor power
  drive <command>       send a movement command (forward, backward, left, right, stop)
  stop                  stop the rover
  status                print the rover status
  gesture <start|stop>  control the gesture pilot
  log                   print recent commands
`

func main() {
	addr := flag.String("addr", "localhost:8080", "API server address")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	c := &client{base: "http://" + *addr + "/api/v1"}

	var err error
	switch args[0] {
	case "connect":
		err = c.post("/link/connect", nil)
	case "disconnect":
		err = c.post("/link/disconnect", nil)
	case "on":
		err = c.post("/rover/power", map[string]any{"on": true})
	case "off":
		err = c.post("/rover/power", map[string]any{"on": false})
	case "drive":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: roverctl drive <command>")
			os.Exit(1)
		}
		err = c.post("/rover/drive", map[string]any{"command": args[1]})
	case "stop":
		err = c.post("/rover/stop", nil)
	case "status":
		err = c.get("/rover/status")
	case "gesture":
		if len(args) < 2 || (args[1] != "start" && args[1] != "stop") {
			fmt.Fprintln(os.Stderr, "usage: roverctl gesture <start|stop>")
			os.Exit(1)
		}
		err = c.post("/gesture/"+args[1], nil)
	case "log":
		err = c.get("/rover/log")
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type client struct {
	base string
}

func (c *client) post(path string, body map[string]any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(http.MethodPost, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func (c *client) get(path string) error {
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

func (c *client) do(req *http.Request) error {
	httpClient := &http.Client{Timeout: 15 * time.Second}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call API: %w (is the api server running?)", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s: %s", apiErr.Error, apiErr.Message)
			}
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	// Re-indent for terminal output
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
