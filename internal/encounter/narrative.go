package encounter

import (
	"fmt"
	"strings"
)

const (
	ruleHeavy = "═══════════════════════════════════════════════════"
	ruleLight = "───────────────────────────────────────────────────"
)

// RenderNarrative formats a VisitRecord as the deterministic discharge
// summary. Sections with no data are omitted entirely.
func RenderNarrative(record VisitRecord) string {
	var b strings.Builder

	b.WriteString(ruleHeavy + "\n")
	b.WriteString("           CLINICAL VISIT SUMMARY\n")
	b.WriteString(ruleHeavy + "\n\n")

	b.WriteString("📋 PATIENT INFORMATION\n")
	b.WriteString(ruleLight + "\n")
	p := record.Patient
	b.WriteString(fmt.Sprintf("Name: %s\n", p.Name))
	b.WriteString(fmt.Sprintf("Age: %d | Gender: %s | Blood Type: %s\n\n", p.Age, p.Gender, p.BloodType))

	if len(p.Medications) > 0 {
		b.WriteString("💊 CURRENT MEDICATIONS\n")
		b.WriteString(ruleLight + "\n")
		for _, m := range p.Medications {
			b.WriteString("• " + m + "\n")
		}
		b.WriteString("\n")
	}

	if len(p.Allergies) > 0 {
		b.WriteString("⚠️ ALLERGIES\n")
		b.WriteString(ruleLight + "\n")
		for _, a := range p.Allergies {
			b.WriteString("• " + a + "\n")
		}
		b.WriteString("\n")
	}

	if len(p.ChronicConditions) > 0 {
		b.WriteString("🏥 CHRONIC CONDITIONS\n")
		b.WriteString(ruleLight + "\n")
		for _, c := range p.ChronicConditions {
			b.WriteString("• " + c + "\n")
		}
		b.WriteString("\n")
	}

	if v := record.Vitals; v != nil {
		b.WriteString("🩺 VITAL SIGNS\n")
		b.WriteString(ruleLight + "\n")
		if v.BloodPressure != "" {
			b.WriteString("Blood Pressure: " + v.BloodPressure + "\n")
		}
		if v.HeartRate != nil {
			b.WriteString(fmt.Sprintf("Heart Rate: %d bpm\n", *v.HeartRate))
		}
		if v.Temperature != nil {
			qualifier := "(Normal)"
			if *v.Temperature > 99 {
				qualifier = "(Febrile)"
			}
			b.WriteString(fmt.Sprintf("Temperature: %.1f°F %s\n", *v.Temperature, qualifier))
		}
		if v.RespiratoryRate != nil {
			b.WriteString(fmt.Sprintf("Respiratory Rate: %d/min\n", *v.RespiratoryRate))
		}
		if v.OxygenSaturation != nil {
			b.WriteString(fmt.Sprintf("Oxygen Saturation: %.0f%%\n", *v.OxygenSaturation))
		}
		b.WriteString("\n")
	}

	if len(record.Symptoms) > 0 {
		b.WriteString("🔍 PRESENTING SYMPTOMS\n")
		b.WriteString(ruleLight + "\n")
		for _, s := range record.Symptoms {
			b.WriteString("• " + s + "\n")
		}
		b.WriteString("\n")
	}

	if record.BodyRegion != nil {
		b.WriteString("📍 PAIN LOCALIZATION\n")
		b.WriteString(ruleLight + "\n")
		b.WriteString("Region: " + *record.BodyRegion + "\n\n")
	}

	b.WriteString("📝 CHIEF COMPLAINT\n")
	b.WriteString(ruleLight + "\n")
	if record.Complaint != nil {
		b.WriteString(*record.Complaint + "\n\n")
	} else {
		b.WriteString("Patient presented for evaluation.\n\n")
	}

	if len(record.ConversationHistory) > 0 {
		b.WriteString("💬 VISIT CONVERSATION LOG\n")
		b.WriteString(ruleLight + "\n")
		for _, e := range record.ConversationHistory {
			label := "Assistant"
			if e.Role == RoleUser {
				label = "Doctor"
			}
			b.WriteString(fmt.Sprintf("%s: %s\n", label, e.Content))
		}
		b.WriteString("\n")
	}

	if record.Score != nil || record.Diagnosis != nil || record.RiskLevel != nil {
		b.WriteString("🔬 CLINICAL ASSESSMENT\n")
		b.WriteString(ruleLight + "\n")
		if s := record.Score; s != nil {
			maxScore := s.MaxScore
			if maxScore == 0 {
				maxScore = 10
			}
			title := s.Title
			if title == "" {
				title = "Clinical Score"
			}
			b.WriteString(fmt.Sprintf("%s: %d/%d\n", title, s.Score, maxScore))
			if len(s.Items) > 0 {
				b.WriteString("Positive Findings: " + strings.Join(s.Items, ", ") + "\n")
			}
		}
		if record.RiskLevel != nil {
			b.WriteString("Risk Level: " + *record.RiskLevel + "\n")
		}
		if record.Diagnosis != nil {
			b.WriteString("Impression: " + *record.Diagnosis + "\n")
		}
		b.WriteString("\n")
	}

	if len(record.LabsOrdered) > 0 {
		b.WriteString("🧪 LABS ORDERED\n")
		b.WriteString(ruleLight + "\n")
		for _, lab := range record.LabsOrdered {
			b.WriteString("☐ " + lab + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("📋 TREATMENT PLAN\n")
	b.WriteString(ruleLight + "\n")
	if record.Procedure != nil {
		b.WriteString("Procedure: " + *record.Procedure + "\n")
	}
	if record.NPOStatus {
		b.WriteString("NPO Status: Initiated\n")
	}
	if record.ConsentObtained {
		b.WriteString("Consent: Obtained\n")
	}
	if record.Plan != nil {
		b.WriteString(*record.Plan + "\n")
	} else {
		b.WriteString("Continue monitoring. Follow up as needed.\n")
	}
	b.WriteString("\n")

	b.WriteString(ruleHeavy + "\n")
	b.WriteString("📊 SESSION SUMMARY\n")
	b.WriteString(fmt.Sprintf("Messages exchanged: %d\n", record.MessageCount))
	b.WriteString(fmt.Sprintf("Generated: %s\n", record.Timestamp.Format("2006-01-02 15:04:05 MST")))
	b.WriteString(ruleHeavy + "\n")

	return b.String()
}
