package llm

import (
	"fmt"
	"strings"
)

// ClinicalInput is the transcript plus the context a doctor attaches to it.
type ClinicalInput struct {
	Text               string `json:"text"`
	DoctorNotes        string `json:"doctor_notes"`
	PatientInformation string `json:"patient_information"`
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None provided."
	}
	return strings.TrimSpace(s)
}

// SOAPNotePrompt asks for a Subjective/Objective/Assessment/Plan note.
func SOAPNotePrompt(in ClinicalInput) string {
	return fmt.Sprintf(`Please analyze the following medical conversation and convert it into a SOAP note format.
Follow this structure strictly:

Subjective (S): Patient's symptoms, complaints, and relevant history
Objective (O): Observable findings, vital signs, examination results
Assessment (A): Medical diagnosis or clinical impression
Plan (P): Treatment plan, medications, follow-up

Doctor's notes:
%s

Patient information:
%s

Here's the conversation to analyze:
%s

Format the response maintaining clear SOAP sections.`,
		orNone(in.DoctorNotes), orNone(in.PatientInformation), strings.TrimSpace(in.Text))
}

// ReferralLetterPrompt asks for a letter to a specialist.
func ReferralLetterPrompt(in ClinicalInput) string {
	return fmt.Sprintf(`Write a professional medical referral letter to a specialist based on the consultation below.
Include:

1. Patient details and reason for referral
2. Relevant history and presenting symptoms
3. Examination findings and investigations so far
4. Current medications and treatments
5. The specific question or service requested from the specialist

Keep the tone formal and concise, and do not invent findings that are not supported by the material.

Doctor's notes:
%s

Patient information:
%s

Consultation transcript:
%s`,
		orNone(in.DoctorNotes), orNone(in.PatientInformation), strings.TrimSpace(in.Text))
}

// SummaryPrompt asks for a short summary of a transcript.
func SummaryPrompt(text string) string {
	return fmt.Sprintf(`Summarize the following medical conversation transcript for the patient's record.
Capture the main complaint, key findings, decisions made and agreed next steps in a few short paragraphs.
Use plain language and do not add information that is not in the transcript.

Transcript:
%s`, strings.TrimSpace(text))
}

// PrerequisitesSearchQuery is the web search issued for a condition.
func PrerequisitesSearchQuery(condition string) string {
	return fmt.Sprintf("%s pre-appointment preparation fasting dietary restrictions medical tests documents to bring",
		strings.TrimSpace(condition))
}

// PrerequisitesPrompt combines search findings with the condition.
func PrerequisitesPrompt(condition, findings string) string {
	return fmt.Sprintf(`Based on the following search results and your medical knowledge, provide a comprehensive
list of preparations and precautions for a patient with %s
before their doctor's appointment. Keep the tone friendly and reassuring.

Search findings:
%s

Please format the response with these sections:
1. Pre-appointment Testing Requirements
2. Dietary Restrictions
3. Required Documents
4. Symptom-specific Preparations
5. Additional Precautions

Make sure to highlight any critical timing requirements (like fasting duration)
and essential items to bring to the appointment.`, strings.TrimSpace(condition), findings)
}
