package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/clinicalflow/clinicalflow/internal/encounter"
	"github.com/clinicalflow/clinicalflow/internal/patients"
)

// scribetest exercises the full End Visit pipeline from the command line:
// a scripted encounter is compiled and summarized, with Gemini when
// GEMINI_API_KEY is set and the template otherwise.
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	patient := patients.SeedPatients()[0]
	synthesizer := encounter.NewSynthesizer()
	session := encounter.NewSession(patient.ID)

	turns := []string{
		"Patient reports stomach pain since last night",
		"RLQ tenderness on examination, suspect appendicitis",
		"Order blood work",
	}
	for _, text := range turns {
		plan := synthesizer.Synthesize(text, patient, encounter.Hints{})
		reply := encounter.PlanNarrative(plan)
		now := time.Now()
		session.Append(encounter.Entry{Role: encounter.RoleUser, Content: text, Timestamp: now})
		session.Append(encounter.Entry{Role: encounter.RoleAssistant, Content: reply, Components: plan, Timestamp: now})
		fmt.Printf("> %s\n  %s (%d directives)\n", text, reply, len(plan))
	}

	session.Context().Report("VitalsForm", map[string]any{
		"bloodPressure": "128/84",
		"heartRate":     96,
		"temperature":   100.8,
	})
	session.Context().Report("ScoreCalculator", map[string]any{
		"title": "Alvarado Score (Appendicitis)", "score": 7, "maxScore": 10,
		"items": []any{"RLQ tenderness", "Fever", "Migration of pain to RLQ"},
	})
	session.Context().Report("BodyMapAbdomen", "lower-right")
	session.Context().Report("NPOOrderToggle", map[string]any{"on": true})

	record := encounter.NewCompiler().Compile(patient, session)

	var client encounter.LLMClient
	modelID := "gemini-2.5-flash"
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		gemini, err := encounter.NewGeminiLLMClient(ctx, key, modelID)
		if err != nil {
			fmt.Printf("failed to create Gemini client, falling back to template: %v\n", err)
		} else {
			defer gemini.Close()
			client = gemini
		}
	} else {
		fmt.Println("GEMINI_API_KEY not set, using template summary")
	}

	summarizer := encounter.NewSummarizer(client, modelID, 30*time.Second, nil, nil)
	summary := summarizer.Summarize(ctx, record)

	fmt.Printf("\n--- visit summary (generated by %s) ---\n\n", summary.GeneratedBy)
	fmt.Println(summary.Text)
}
