package prompt

import "strings"

type letterTone struct {
	guidance    string
	temperature float64
}

var letterTones = map[string]letterTone{
	"formal":       {"Formal and courteous. No contractions or slang.", 0.3},
	"friendly":     {"Warm and personal, like a coach who knows the member.", 0.7},
	"motivational": {"Energetic and encouraging. Celebrate progress and invite the next step.", 0.9},
	"apologetic":   {"Sincere and accountable. Acknowledge the issue and state how it will be made right.", 0.5},
	"persuasive":   {"Confident and benefit-focused, with one clear call to action.", 0.8},
}

func buildLetter(in Input) (Prompt, error) {
	recipient := strings.TrimSpace(in.Params.Text("recipient"))
	if recipient == "" {
		return Prompt{}, invalid("recipient is required")
	}
	toneKey, err := oneOf(in.Params, "tone", "", "formal", "friendly", "motivational", "apologetic", "persuasive")
	if err != nil {
		return Prompt{}, err
	}
	tone := letterTones[toneKey]

	var sys strings.Builder
	writeTag(&sys, "task", "You write letters on behalf of a fitness club. Produce a complete letter with greeting, body and sign-off.")
	writeTag(&sys, "tone", tone.guidance)

	var user strings.Builder
	details := "Recipient: " + recipient
	if sender := strings.TrimSpace(in.Params.Text("sender")); sender != "" {
		details += "\nSender: " + sender
	}
	if purpose := strings.TrimSpace(in.Params.Text("purpose")); purpose != "" {
		details += "\nPurpose: " + purpose
	}
	writeTag(&user, "letter_details", details)
	if strings.TrimSpace(in.Text) != "" {
		writeTag(&user, "points_to_cover", in.Text)
	}

	return Prompt{System: finish(&sys), User: finish(&user), Temperature: tone.temperature}, nil
}
