package patients

// SeedPatients returns the demo patient roster used when no database is
// configured. The metadata traits drive welcome-state synthesis.
func SeedPatients() []*Patient {
	return []*Patient{
		{
			ID:                "pat-harsh-dange",
			Name:              "Harsh Dange",
			Age:               32,
			Gender:            "Male",
			BloodType:         "O+",
			Medications:       []string{"Warfarin"},
			Allergies:         []string{"Penicillin"},
			ChronicConditions: []string{"Asthma"},
		},
		{
			ID:                "pat-sarah-connor",
			Name:              "Sarah Connor",
			Age:               55,
			Gender:            "Female",
			BloodType:         "A-",
			Medications:       []string{"Lisinopril", "Atorvastatin"},
			Allergies:         []string{"Sulfa Drugs"},
			ChronicConditions: []string{"Hypertension", "Hyperlipidemia"},
			Metadata: Metadata{
				MetaWelcomeProfile: WelcomeProfileCardiac,
				MetaBaselineBP:     "155/95",
				MetaRiskLevel:      "High (Cardiac)",
			},
		},
		{
			ID:                "pat-john-wick",
			Name:              "John Wick",
			Age:               45,
			Gender:            "Male",
			BloodType:         "AB+",
			Medications:       []string{"Ibuprofen"},
			Allergies:         []string{},
			ChronicConditions: []string{"Chronic Back Pain", "Multiple Fractures"},
			Metadata: Metadata{
				MetaWelcomeProfile: WelcomeProfileTrauma,
				MetaHardware:       []string{"Distal Tibia Rod (Right)", "L5-S1 Spinal Plate"},
				MetaLastPainScore:  7,
			},
		},
	}
}
