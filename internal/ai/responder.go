package ai

import (
	"context"
	"strings"
	"time"
)

const (
	helpReply    = "I'd be happy to help! Could you provide more details about what you're trying to learn or accomplish with coding?"
	debugReply   = "Debugging is an essential skill! To help with your error, I would need to see the code and the specific error message. Could you share those details?"
	genericReply = "That's an interesting coding question! I'm designed to help with programming topics. Could you provide more context or clarify what programming concept you'd like to explore?"
)

type keywordReply struct {
	keyword string
	reply   string
}

// keywordReplies is checked in order; the first keyword found wins
var keywordReplies = []keywordReply{
	{
		keyword: "default",
		reply:   "I'm your CodeForge assistant. I can help with programming concepts, explain code, and provide solutions to coding problems. What would you like to know?",
	},
	{
		keyword: "javascript",
		reply:   "JavaScript is a high-level, interpreted programming language that conforms to the ECMAScript specification. It's commonly used for web development to create interactive elements.",
	},
	{
		keyword: "for loop",
		reply:   "A for loop repeats until a specified condition evaluates to false. In JavaScript, it has the syntax:\n```javascript\nfor (initialization; condition; afterthought) {\n  // code to execute\n}\n```",
	},
	{
		keyword: "react hooks",
		reply:   "React Hooks are functions that let you use state and other React features without writing a class. Some common hooks include:\n- useState: Adds state to functional components\n- useEffect: Handles side effects\n- useContext: Accesses context\n- useRef: Creates mutable references",
	},
	{
		keyword: "recursion",
		reply:   "Recursion is when a function calls itself, directly or indirectly. It's useful for tasks that can be broken down into similar subtasks. Every recursive solution needs a base case to prevent infinite recursion.\n```javascript\nfunction factorial(n) {\n  if (n <= 1) return 1; // base case\n  return n * factorial(n - 1); // recursive case\n}\n```",
	},
}

// Responder answers chat prompts from a fixed keyword table
type Responder struct {
	latency time.Duration
}

// NewResponder creates a responder that waits latency before each reply
func NewResponder(latency time.Duration) *Responder {
	return &Responder{latency: latency}
}

// Reply returns the canned reply for prompt. It only fails when ctx ends
// before the simulated latency has passed.
func (r *Responder) Reply(ctx context.Context, prompt string) (string, error) {
	message := strings.ToLower(prompt)

	if err := sleep(ctx, r.latency); err != nil {
		return "", err
	}

	for _, kr := range keywordReplies {
		if strings.Contains(message, kr.keyword) {
			return kr.reply, nil
		}
	}
	if strings.Contains(message, "help") || strings.Contains(message, "how") {
		return helpReply, nil
	}
	if strings.Contains(message, "error") || strings.Contains(message, "bug") {
		return debugReply, nil
	}
	return genericReply, nil
}
