package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wolfman30/mediscribe-api/cmd/mainconfig"
	"github.com/wolfman30/mediscribe-api/internal/app/bootstrap"
	appconfig "github.com/wolfman30/mediscribe-api/internal/config"
	"github.com/wolfman30/mediscribe-api/internal/llm"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

const sampleTranscript = `Doctor: What brings you in today?
Patient: I've had a dry cough for about two weeks and some tightness in my chest at night.
Doctor: Any fever?
Patient: No fever, but I get short of breath climbing stairs.
Doctor: Your oxygen saturation is 97 percent and I hear mild wheezing on both sides.`

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	condition := flag.String("condition", "asthma", "condition for the prerequisites check")
	flag.Parse()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	client, err := bootstrap.BuildLLMClient(ctx, cfg, awsCfg, nil, logger)
	if err != nil {
		log.Fatalf("build llm client: %v", err)
	}

	generator := llm.NewModelGenerator(client, bootstrap.GeneratorConfig(cfg))
	searcher := bootstrap.BuildSearcher(cfg, bootstrap.BuildRedisClient(ctx, cfg, logger, true), nil, logger)
	service := llm.NewService(generator, llm.NewPrerequisitesAdvisor(searcher, generator, logger), nil, logger)

	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	fmt.Printf("LLM Provider Test (provider=%s fallback=%s)\n", cfg.LLMProvider, cfg.LLMFallbackProvider)
	fmt.Println(rule)

	fmt.Println("\n[1] SOAP note from sample transcript...")
	start := time.Now()
	note, err := service.SOAPNote(ctx, llm.ClinicalInput{Text: sampleTranscript})
	if err != nil {
		fmt.Printf("    ❌ SOAP note error: %v\n", err)
	} else {
		fmt.Printf("    ✅ SOAP note (%v):\n%s\n", time.Since(start).Round(time.Millisecond), note)
	}

	fmt.Printf("\n[2] Prerequisites for %q...\n", *condition)
	start = time.Now()
	answer := service.Prerequisites(ctx, *condition)
	fmt.Printf("    search_degraded=%t generation_degraded=%t (%v)\n",
		answer.SearchDegraded, answer.GenerationDegraded, time.Since(start).Round(time.Millisecond))
	fmt.Println(answer.Text)

	fmt.Println("\n" + rule)
	fmt.Println("If the SOAP note printed, the primary or fallback provider is working.")
	fmt.Println("Watch logs for 'llm fallback answered' to confirm fallback.")
}
