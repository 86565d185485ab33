package chat

import "strings"

// Greeting is sent when a chat session opens.
const Greeting = "Hi! I'm RepairUp's AI assistant. I can help diagnose appliance issues and guide you through troubleshooting steps. I can also help you prepare the right information for our technicians to ensure faster, more efficient repairs. What appliance problem can I help you with today?"

// Fallback is returned when no rule matches. It carries no booking action.
const Fallback = "🔧 Hello! I'm the RepairUp AI assistant. I can help you diagnose issues with your home appliances. To get started, please tell me: 1) Which appliance needs help (AC, fridge, etc.)? 2) What's the problem? The more details you provide, the better I can assist you."

// BookingAction pre-fills the booking form when the user follows up on a reply.
type BookingAction struct {
	Service string `json:"service"`
	Problem string `json:"problem"`
}

type Reply struct {
	Text   string         `json:"text"`
	Action *BookingAction `json:"action,omitempty"`
}

// symptom is a sub-condition inside a rule; the first matching symptom wins.
type symptom struct {
	keywords []string
	problem  string
	text     string
}

// rule groups one appliance's symptoms. Rules are evaluated strictly in order,
// so earlier appliances take priority over later ones when keywords overlap.
type rule struct {
	keywords []string
	service  string
	symptoms []symptom
	// defaults when the appliance matched but no symptom did
	defaultProblem string
	defaultText    string
	noAction       bool
}

var rules = []rule{
	{
		keywords: []string{"ac", "air conditioner", "cooling"},
		service:  "AC",
		symptoms: []symptom{
			{
				keywords: []string{"not cooling", "warm air"},
				problem:  "Not Cooling",
				text:     "🌡️ AC not cooling properly? This is a common issue we see at RepairUp. It often points to dirty air filters, a refrigerant leak, or compressor problems. Would you like to book a technician?",
			},
			{
				keywords: []string{"noise", "sound"},
				problem:  "Making Noise",
				text:     "🔧 A noisy AC can be alarming. For your safety, avoid trying to fix it yourself. It's best to have a RepairUp expert take a look. Shall I book one for you?",
			},
			{
				keywords: []string{"smell", "odor"},
				problem:  "Strange Smell",
				text:     "👃 A strange smell from your AC? If you smell something burning, turn off the AC immediately. For other smells, booking a RepairUp technician is the best next step. Ready to book?",
			},
		},
		defaultProblem: "General Issue",
		defaultText:    "❄️ Having AC trouble? As your RepairUp assistant, I recommend noting the problem details. This helps our technicians provide a fast repair. Ready to book?",
	},
	{
		keywords: []string{"washing machine", "washer"},
		service:  "Washing Machine",
		symptoms: []symptom{
			{
				keywords: []string{"not spinning", "won't spin"},
				problem:  "Not Spinning",
				text:     "A washing machine that won't spin can be frustrating. If rebalancing the load doesn't work, it's time to call a RepairUp expert. Would you like to book a service?",
			},
			{
				keywords: []string{"leak", "water"},
				problem:  "Leaking",
				text:     "A leaky washing machine needs immediate attention. A RepairUp technician can diagnose and fix the leak safely. Shall I help you book one?",
			},
		},
		defaultProblem: "General Issue",
		defaultText:    "For any washing machine problem, our RepairUp technicians are ready to help. Would you like to book a service now?",
	},
	{
		keywords: []string{"refrigerator", "fridge"},
		service:  "Refrigerator",
		symptoms: []symptom{
			{
				keywords: []string{"not cooling", "warm"},
				problem:  "Not Cooling",
				text:     "A warm refrigerator is a major concern. To prevent food spoilage, it's best to book a RepairUp technician. We can diagnose and repair it quickly. Ready to book?",
			},
			{
				keywords: []string{"noise", "loud"},
				problem:  "Loud Noise",
				text:     "Loud noises from your fridge can be a sign of a failing component. A RepairUp technician can fix it before it becomes a bigger problem. Would you like to book now?",
			},
		},
		defaultProblem: "General Issue",
		defaultText:    "For any refrigerator issue, your RepairUp team is ready to help. Shall we book a technician for you?",
	},
	{
		keywords:    []string{"help", "what should i", "how do i"},
		noAction:    true,
		defaultText: "I'm your RepairUp AI assistant, here to help you with any appliance issue! Just tell me which appliance is causing trouble and what the problem is. I can provide troubleshooting tips and help you gather the right information for our technicians. How can I assist you today?",
	},
}

// Respond maps a free-text message to a canned reply. Matching is
// case-insensitive substring search; the first matching rule wins, and within a
// rule the first matching symptom wins.
func Respond(message string) Reply {
	msg := strings.ToLower(message)

	for _, r := range rules {
		if !containsAny(msg, r.keywords) {
			continue
		}
		for _, s := range r.symptoms {
			if containsAny(msg, s.keywords) {
				return Reply{
					Text:   s.text,
					Action: &BookingAction{Service: r.service, Problem: s.problem},
				}
			}
		}
		if r.noAction {
			return Reply{Text: r.defaultText}
		}
		return Reply{
			Text:   r.defaultText,
			Action: &BookingAction{Service: r.service, Problem: r.defaultProblem},
		}
	}

	return Reply{Text: Fallback}
}

func containsAny(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if matchKeyword(msg, kw) {
			return true
		}
	}
	return false
}

// matchKeyword is substring search, except that very short keywords ("ac")
// must stand alone as a word. Plain substring would make "machine" match "ac"
// and shadow the washing machine rules entirely.
func matchKeyword(msg, kw string) bool {
	if len(kw) > 2 {
		return strings.Contains(msg, kw)
	}

	for start := 0; ; {
		i := strings.Index(msg[start:], kw)
		if i < 0 {
			return false
		}
		at := start + i
		end := at + len(kw)
		beforeOK := at == 0 || !isLetter(msg[at-1])
		afterOK := end == len(msg) || !isLetter(msg[end])
		if beforeOK && afterOK {
			return true
		}
		start = at + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
