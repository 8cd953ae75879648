package main

import (
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/holder-aquarium-go/holders"
	"github.com/olivierh59500/holder-aquarium-go/logging"
	"github.com/olivierh59500/holder-aquarium-go/swarm"
)

var (
	configFlag    = flag.String("config", "", "JSON swarm config to load (overrides -mode)")
	modeFlag      = flag.String("mode", ModeBowl, "Aquarium shape: bowl or tank")
	holdersFlag   = flag.Int("holders", 60, "Number of demo holders")
	minFlag       = flag.Float64("min", holders.DefaultMinTokens, "Minimum token balance shown")
	seedFlag      = flag.Int64("seed", 0, "Demo data seed (0 = current time)")
	logLevelFlag  = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormatFlag = flag.String("log-format", "text", "Log format: text or json")
	wanderFlag    = flag.String("wander", "", "Wander steering: sine or perlin (default from config)")
)

func main() {
	flag.Parse()

	logCfg := logging.DefaultConfig()
	level, ok := logging.ParseLevel(*logLevelFlag)
	logCfg.Level = level
	logCfg.Format = *logFormatFlag
	logCfg.Component = "aquarium"
	log := logging.New(logCfg)
	if !ok {
		log.Warn("unknown log level", "level", *logLevelFlag, "using", level.String())
	}

	var wander swarm.WanderKind
	if *wanderFlag != "" {
		k, err := swarm.ParseWanderKind(*wanderFlag)
		if err != nil {
			log.Error("parse -wander", "err", err)
			os.Exit(2)
		}
		wander = k
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := AquariumOptions{
		Width:      800,
		Height:     600,
		Mode:       *modeFlag,
		ConfigPath: *configFlag,
		NumHolders: *holdersFlag,
		MinTokens:  *minFlag,
		Seed:       seed,
		Wander:     wander,
		Logger:     log,
	}
	if *configFlag != "" {
		cfg, err := swarm.LoadConfig(*configFlag)
		if err != nil {
			log.Error("load config", "path", *configFlag, "err", err)
			os.Exit(1)
		}
		opts.Config = &cfg
	}

	aq, err := NewAquarium(opts)
	if err != nil {
		log.Error("create aquarium", "err", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(int(opts.Width), int(opts.Height))
	ebiten.SetWindowTitle("Holder Aquarium")
	ebiten.SetTPS(TPS)

	if err := ebiten.RunGame(aq); err != nil {
		log.Error("run", "err", err)
		os.Exit(1)
	}
}
