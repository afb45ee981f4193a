// cmd/petchat is a development harness: a line-based REPL that drives the
// chat engine against built-in owner and pet documents, with commands to
// poke the status vitals between turns. It is not a service entrypoint.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ReiTony/petllm/datastore"
	"github.com/ReiTony/petllm/internal/ai"
	"github.com/ReiTony/petllm/internal/chat"
	"github.com/ReiTony/petllm/internal/config"
	"github.com/ReiTony/petllm/internal/facts"
	"github.com/ReiTony/petllm/internal/logging"
	"github.com/ReiTony/petllm/internal/memory"
	"github.com/ReiTony/petllm/internal/profile"
	"github.com/ReiTony/petllm/pkg/jobmgr"
	"github.com/ReiTony/petllm/pkg/util"
)

const (
	demoOwnerID = "demo-owner"
	demoPetID   = "demo-pet"
)

var statusKeys = map[string]string{
	"hunger":      "hunger_level",
	"happiness":   "happiness_level",
	"health":      "health_level",
	"cleanliness": "cleanliness_level",
	"energy":      "energy_level",
	"stress":      "stress_level",
	"sick":        "is_sick",
	"severity":    "sickness_severity",
	"hibernation": "hibernation_mode",
}

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	ds, err := datastore.New(cfg.StoragePath)
	if err != nil {
		logger.Fatal("open datastore", "err", err)
	}
	defer ds.Close()

	provider, err := ai.NewProvider(cfg, logging.ForComponent(logger, "ai"))
	if err != nil {
		logger.Fatal("build provider", "err", err)
	}

	profiles := profile.NewDatastoreStore(ds)
	jobs := jobmgr.NewManager(func(msg string) {
		logger.Debug("job", "event", msg)
	})
	extractor := facts.NewExtractor(provider, profiles, jobs, logging.ForComponent(logger, "facts"))

	status := map[string]string{
		"hunger_level":      "90.0",
		"happiness_level":   "90.0",
		"health_level":      "90.0",
		"cleanliness_level": "90.0",
		"energy_level":      "90.0",
		"stress_level":      "10.0",
	}

	engine := chat.NewEngine(chat.Deps{
		Owners: chat.OwnerFetcherFunc(func(ctx context.Context, ownerID, authToken string) (map[string]any, error) {
			return map[string]any{"email": "demo@example.com", "first_name": "Demo"}, nil
		}),
		Pets: chat.PetFetcherFunc(func(ctx context.Context, petID, authToken string) (map[string]any, error) {
			return map[string]any{
				"pet_type":      "dog",
				"pet_name":      "Rex",
				"breed":         "Labrador",
				"personality":   "Playful",
				"life_stage_id": "3",
			}, nil
		}),
		Statuses: chat.StatusFetcherFunc(func(ctx context.Context, ownerID, petID, authToken string) (map[string]string, error) {
			return status, nil
		}),
		Profiles:  profiles,
		Memory:    memory.NewDatastoreStore(ds),
		Provider:  provider,
		Extractor: extractor,
		Detector:  facts.NewDetector(provider),
	}, chat.Options{
		MemoryLimit:     cfg.MemoryRecentLimit,
		ReplyCharBudget: cfg.ReplyCharBudget,
	}, logger)

	fmt.Println("petchat dev REPL. Type a message, or /status, /set <key> <value>, /history, /profile, /quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if done := runCommand(engine, profiles, status, line, logger); done {
				break
			}
			continue
		}

		reply, err := engine.Chat(context.Background(), chat.Request{
			OwnerID: demoOwnerID,
			PetID:   demoPetID,
			Message: line,
		})
		if err != nil {
			logger.Error("chat failed", "err", err)
			continue
		}

		fmt.Printf("Rex %v %v %v: %s\n",
			reply.Features.Emotions, reply.Features.Motions, reply.Features.Sounds, reply.Text)
	}

	jobs.Wait()
}

func runCommand(engine *chat.Engine, profiles profile.Store, status map[string]string, line string, logger *log.Logger) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/status":
		for short, key := range statusKeys {
			if v, ok := status[key]; ok {
				fmt.Printf("  %-12s %s\n", short, v)
			}
		}

	case "/set":
		if len(fields) != 3 {
			fmt.Println("usage: /set <key> <value>   keys: hunger, happiness, health, cleanliness, energy, stress, sick, severity, hibernation")
			return false
		}
		key, ok := statusKeys[fields[1]]
		if !ok {
			fmt.Println("unknown key:", fields[1])
			return false
		}
		status[key] = fields[2]
		fmt.Printf("  %s = %s\n", fields[1], fields[2])

	case "/history":
		turns, err := engine.History(context.Background(), demoOwnerID, demoPetID, 20)
		if err != nil {
			logger.Error("history failed", "err", err)
			return false
		}
		for _, turn := range turns {
			ts := util.FormatDateTpl(turn.Timestamp.UnixMilli(), "hh:mm:ss")
			fmt.Printf("  [%s] %s: %s\n", ts, turn.Sender, turn.Text)
		}

	case "/profile":
		prof, err := profiles.Get(context.Background(), demoOwnerID)
		if err != nil {
			logger.Error("profile read failed", "err", err)
			return false
		}
		if prof == nil {
			fmt.Println("  no profile yet")
			return false
		}
		fmt.Printf("  name: %s\n", prof.FirstName)
		bio := profile.RenderBiography(prof)
		if bio == "" {
			bio = "  (no facts learned yet)"
		}
		fmt.Println(bio)

	default:
		fmt.Println("unknown command:", fields[0])
	}
	return false
}
