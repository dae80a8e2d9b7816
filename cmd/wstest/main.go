// Command wstest watches the realtime notification socket of one account.
// It opens one or more sockets, tallies enrollment events by type and exits
// once the expected number of events arrived or the deadline passed.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"bailemos/internal/notifications"
	"bailemos/internal/service"

	"github.com/gorilla/websocket"
)

type watchOptions struct {
	host     string
	secure   bool
	email    string
	password string
	sockets  int
	expect   int
	deadline time.Duration
	quiet    bool
}

func parseFlags() watchOptions {
	var o watchOptions
	flag.StringVar(&o.host, "host", "localhost:5000", "API server host")
	flag.BoolVar(&o.secure, "tls", false, "Use https/wss")
	flag.StringVar(&o.email, "email", "hola@salsanorte.es", "Account to watch")
	flag.StringVar(&o.password, "password", "password123", "Account password")
	flag.IntVar(&o.sockets, "sockets", 1, "Concurrent sockets for the account")
	flag.IntVar(&o.expect, "expect", 0, "Stop after this many events across all sockets (0 waits for the deadline)")
	flag.DurationVar(&o.deadline, "deadline", 30*time.Second, "Give up after this long")
	flag.BoolVar(&o.quiet, "q", false, "Only print the summary")
	flag.Parse()
	return o
}

func (o watchOptions) endpoint(scheme, path string) url.URL {
	if o.secure {
		scheme += "s"
	}
	return url.URL{Scheme: scheme, Host: o.host, Path: path}
}

func main() {
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.deadline)
	defer cancel()

	session, err := authenticate(ctx, opts)
	if err != nil {
		log.Fatalf("login as %s: %v", opts.email, err)
	}
	log.Printf("watching %s (%s) on %d socket(s)", session.Email, session.Role, opts.sockets)

	t := newTally(opts.expect)
	var wg sync.WaitGroup
	for i := 0; i < opts.sockets; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			watch(ctx, opts, session.Token, id, t)
		}(i)
	}

	select {
	case <-t.done():
		log.Printf("received %d expected event(s)", opts.expect)
	case <-ctx.Done():
	}
	cancel()
	wg.Wait()

	fmt.Println(t.render())
	if !t.satisfied() {
		os.Exit(1)
	}
}

func authenticate(ctx context.Context, opts watchOptions) (*service.AuthResult, error) {
	body, err := json.Marshal(service.LoginInput{Email: opts.email, Password: opts.password})
	if err != nil {
		return nil, err
	}
	u := opts.endpoint("http", "/api/auth/login")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var result service.AuthResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, fmt.Errorf("no token in login response")
	}
	return &result, nil
}

// watch reads events from one socket until ctx ends or the server hangs up.
func watch(ctx context.Context, opts watchOptions, token string, id int, t *tally) {
	u := opts.endpoint("ws", "/api/ws")
	u.RawQuery = url.Values{"token": {token}}.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		log.Printf("socket %d: upgrade failed (status %d): %v", id, status, err)
		t.rejected()
		return
	}
	t.connected()

	closeOnDone := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer func() {
		if closeOnDone() {
			_ = conn.Close()
		}
	}()

	for {
		var ev notifications.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() == nil {
				log.Printf("socket %d: dropped: %v", id, err)
				t.dropped()
			}
			return
		}
		if !opts.quiet {
			payload, _ := json.Marshal(ev.Payload)
			log.Printf("socket %d: %s %s", id, ev.Type, payload)
		}
		t.record(ev.Type)
	}
}
