package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"layergen.ai/internal/observerproto"
	"layergen.ai/internal/sim/world/terrain/inspect"
)

func main() {
	var (
		base      = flag.String("url", "127.0.0.1:8081", "layergen -serve address")
		pipelines = flag.String("pipelines", "", "comma separated pipeline filter (default: all)")
		replay    = flag.Bool("replay", true, "ask for frames captured before connecting")
		top       = flag.Int("top", 3, "most frequent ids to print per frame")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[watch] ", log.LstdFlags|log.Lmicroseconds)

	boot, err := fetchBootstrap("http://" + *base + "/v1/observer/bootstrap")
	if err != nil {
		logger.Fatalf("bootstrap: %v", err)
	}
	logger.Printf("run=%s seed=%d pipelines=%v", boot.RunID, boot.RunParams.Seed, boot.RunParams.Pipelines)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+*base+"/v1/observer/ws", nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	sub := observerproto.SubscribeMsg{
		Type:            "SUBSCRIBE",
		ProtocolVersion: observerproto.Version,
		Replay:          *replay,
	}
	if s := strings.TrimSpace(*pipelines); s != "" {
		sub.Pipelines = strings.Split(s, ",")
	}
	if err := conn.WriteJSON(sub); err != nil {
		logger.Fatalf("send SUBSCRIBE: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		b, err := observerproto.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch b.Type {
		case "FRAME":
			var m observerproto.FrameMsg
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			f, err := inspect.FrameFromMessage(m)
			if err != nil {
				logger.Printf("bad frame %s#%d: %v", m.Label, m.Index, err)
				continue
			}
			logger.Printf("%s %03d %s#%d %s", f.Pipeline, f.Seq, f.Label, f.Index, summarize(m.Histogram, palette(boot, f.Pipeline), *top))
		case "DONE":
			var d observerproto.DoneMsg
			if err := json.Unmarshal(msg, &d); err != nil {
				continue
			}
			logger.Printf("%s done: %d stages", d.Pipeline, d.Stages)
		}
	}
}

func fetchBootstrap(url string) (observerproto.BootstrapResponse, error) {
	var out observerproto.BootstrapResponse
	cl := &http.Client{Timeout: 5 * time.Second}
	resp, err := cl.Get(url)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return out, fmt.Errorf("status %s", resp.Status)
	}
	err = json.NewDecoder(resp.Body).Decode(&out)
	return out, err
}

func palette(boot observerproto.BootstrapResponse, pipeline string) []string {
	switch pipeline {
	case "biome":
		return boot.BiomePalette
	case "forest":
		return boot.ForestPalette
	case "plates":
		return boot.PlatePalette
	case "rock":
		return boot.RockPalette
	}
	return nil
}

// summarize renders the most frequent ids of a frame histogram as
// "NAME=share%" pairs, ties broken by id.
func summarize(hist map[string]int, names []string, top int) string {
	type entry struct {
		id, n int
	}
	total := 0
	entries := make([]entry, 0, len(hist))
	for k, n := range hist {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		entries = append(entries, entry{id, n})
		total += n
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return entries[i].id < entries[j].id
	})
	if top > 0 && len(entries) > top {
		entries = entries[:top]
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strconv.Itoa(e.id)
		if e.id >= 0 && e.id < len(names) {
			name = names[e.id]
		}
		parts = append(parts, fmt.Sprintf("%s=%.0f%%", name, 100*float64(e.n)/float64(total)))
	}
	return strings.Join(parts, " ")
}
