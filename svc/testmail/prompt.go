package testmail

import (
	"strconv"
	"strings"
)

const (
	placeholderStoreName   = "{store_name}"
	placeholderOrderNumber = "{order_number}"
	placeholderNumEmails   = "{num_emails}"
	placeholderPolicyText  = "{policy_text}"
)

var requiredPlaceholders = []string{
	placeholderStoreName,
	placeholderOrderNumber,
	placeholderNumEmails,
	placeholderPolicyText,
}

// FormatInstruction is appended to every prompt and fixes the reply shape.
const FormatInstruction = `

IMPORTANT: Return ONLY a JSON array in this exact format, with no other text:
[
  {
    "subject": "Clear email subject here",
    "body": "Email content here"
  },
  {
    "subject": "Another clear subject",
    "body": "Another email content"
  }
]
`

// BuildPrompt fills tpl from req and appends FormatInstruction. Substitution
// is a single pass, so placeholder-like text inside the policy is kept as is.
// An empty policy text still yields a prompt.
func BuildPrompt(tpl PromptTemplate, req GenerationRequest) (string, error) {
	if missing := missingPlaceholders(string(tpl)); len(missing) > 0 {
		return "", &FormattingError{Locale: req.Locale, Missing: missing}
	}

	r := strings.NewReplacer(
		placeholderStoreName, req.StoreName,
		placeholderOrderNumber, req.OrderNumber,
		placeholderNumEmails, strconv.Itoa(req.emailCount()),
		placeholderPolicyText, req.PolicyText,
	)
	return r.Replace(string(tpl)) + FormatInstruction, nil
}

func missingPlaceholders(tpl string) []string {
	var missing []string
	for _, p := range requiredPlaceholders {
		if !strings.Contains(tpl, p) {
			missing = append(missing, p)
		}
	}
	return missing
}
