package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/fkcurrie/hub75-animloop/internal/config"
	"github.com/fkcurrie/hub75-animloop/internal/sink"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	hold := flag.Duration("hold", 2*time.Second, "how long each pattern stays up")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load config from %s: %v", *configPath, err)
		log.Printf("Using default configuration")
		cfg = config.DefaultConfig()
	}

	matrix, err := sink.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s sink: %v", cfg.Sink.Kind, err)
	}
	defer matrix.Close()

	for _, p := range patterns {
		log.Printf("Showing %s", p.name)
		if err := draw(matrix, p.fill); err != nil {
			log.Fatalf("Failed to show %s: %v", p.name, err)
		}
		time.Sleep(*hold)
	}

	log.Println("Clearing matrix")
	if err := matrix.Clear(); err != nil {
		log.Fatalf("Failed to clear matrix: %v", err)
	}

	fmt.Println("Test completed successfully")
}
