package ai

import "codeforge/internal/models"

// DefaultTopic is used when a requested topic has no question pool
const DefaultTopic = "JavaScript Basics"

// topicOrder fixes the order topics are listed in
var topicOrder = []string{"JavaScript Basics", "Data Structures", "Algorithms", "React"}

// SampleQuizzes holds the built-in question pools keyed by topic
var SampleQuizzes = map[string][]models.Question{
	"JavaScript Basics": {
		{
			ID:            "js1",
			Prompt:        "What is the output of: console.log(typeof [])?",
			Options:       []string{"array", "object", "undefined", "null"},
			CorrectOption: "object",
			Explanation:   `In JavaScript, arrays are actually objects, so typeof [] returns "object".`,
		},
		{
			ID:            "js2",
			Prompt:        "Which method is used to add one or more elements to the end of an array?",
			Options:       []string{"push()", "pop()", "concat()", "shift()"},
			CorrectOption: "push()",
			Explanation:   "The push() method adds one or more elements to the end of an array and returns the new length.",
		},
		{
			ID:            "js3",
			Prompt:        `What is the result of 2 + "2" in JavaScript?`,
			Options:       []string{"4", `"22"`, "22", "Error"},
			CorrectOption: `"22"`,
			Explanation:   "When adding a number to a string, JavaScript will convert the number to a string and concatenate them.",
		},
		{
			ID:     "js4",
			Prompt: "What is a closure in JavaScript?",
			Options: []string{
				"A function that returns another function",
				"A function that has access to variables in its outer scope",
				"A way to close a browser window",
				"A method to end a loop",
			},
			CorrectOption: "A function that has access to variables in its outer scope",
			Explanation:   "A closure is a function that has access to variables in its outer (enclosing) scope, even after the outer function has finished executing.",
		},
		{
			ID:     "js5",
			Prompt: "What is the correct way to create a JavaScript object?",
			Options: []string{
				"var obj = Object();",
				"var obj = new Object();",
				"var obj = {};",
				"Both B and C are correct",
			},
			CorrectOption: "Both B and C are correct",
			Explanation:   "In JavaScript, you can create objects using the object literal syntax {} or using the Object constructor with new Object().",
		},
	},
	"Data Structures": {
		{
			ID:            "ds1",
			Prompt:        "Which data structure uses LIFO (Last In, First Out)?",
			Options:       []string{"Queue", "Stack", "Linked List", "Tree"},
			CorrectOption: "Stack",
			Explanation:   "A stack follows LIFO principle where the last element added is the first one to be removed.",
		},
		{
			ID:            "ds2",
			Prompt:        "What is the time complexity of searching in a balanced binary search tree?",
			Options:       []string{"O(1)", "O(n)", "O(log n)", "O(n²)"},
			CorrectOption: "O(log n)",
			Explanation:   "In a balanced binary search tree, each comparison eliminates roughly half of the remaining tree, leading to a logarithmic time complexity.",
		},
		{
			ID:            "ds3",
			Prompt:        "Which of the following is NOT a linear data structure?",
			Options:       []string{"Array", "Linked List", "Queue", "Tree"},
			CorrectOption: "Tree",
			Explanation:   "A tree is a hierarchical (non-linear) data structure with a root node and child nodes.",
		},
		{
			ID:            "ds4",
			Prompt:        "What data structure would be most efficient for implementing a priority queue?",
			Options:       []string{"Array", "Linked List", "Heap", "Hash Table"},
			CorrectOption: "Heap",
			Explanation:   "A heap (typically implemented as a binary heap) provides efficient operations for priority queue operations like insertion and extracting the highest/lowest priority element.",
		},
		{
			ID:     "ds5",
			Prompt: "What is the main advantage of a hash table?",
			Options: []string{
				"Ordered elements",
				"Fast average case for insertions and lookups",
				"Memory efficiency",
				"Simplicity of implementation",
			},
			CorrectOption: "Fast average case for insertions and lookups",
			Explanation:   "Hash tables provide O(1) average time complexity for insertions, deletions, and lookups, making them very efficient for these operations.",
		},
	},
	"Algorithms": {
		{
			ID:            "algo1",
			Prompt:        "What is the time complexity of quicksort in the average case?",
			Options:       []string{"O(n)", "O(n log n)", "O(n²)", "O(log n)"},
			CorrectOption: "O(n log n)",
			Explanation:   "Quicksort has an average time complexity of O(n log n), making it efficient for large datasets. However, its worst-case complexity is O(n²).",
		},
		{
			ID:            "algo2",
			Prompt:        "Which algorithm is used to find the shortest path in a weighted graph?",
			Options:       []string{"Depth-First Search", "Breadth-First Search", "Dijkstra's Algorithm", "Kruskal's Algorithm"},
			CorrectOption: "Dijkstra's Algorithm",
			Explanation:   "Dijkstra's algorithm finds the shortest path from a starting node to all other nodes in a weighted graph with non-negative weights.",
		},
		{
			ID:     "algo3",
			Prompt: "What problem does dynamic programming solve?",
			Options: []string{
				"Finding the longest path in a graph",
				"Optimization problems with overlapping subproblems",
				"Sorting arrays efficiently",
				"Finding prime numbers",
			},
			CorrectOption: "Optimization problems with overlapping subproblems",
			Explanation:   "Dynamic programming is used for optimization problems where the same subproblems are solved multiple times, by storing results of subproblems to avoid redundant computation.",
		},
		{
			ID:            "algo4",
			Prompt:        "Which sorting algorithm is known for its stability?",
			Options:       []string{"Quicksort", "Merge Sort", "Heap Sort", "Selection Sort"},
			CorrectOption: "Merge Sort",
			Explanation:   "Merge sort is a stable sorting algorithm, meaning it preserves the relative order of equal elements in the sorted output.",
		},
		{
			ID:            "algo5",
			Prompt:        "What is the space complexity of Breadth-First Search?",
			Options:       []string{"O(1)", "O(log n)", "O(n)", "O(n²)"},
			CorrectOption: "O(n)",
			Explanation:   "BFS requires a queue to store nodes to visit next, which in the worst case can contain all nodes in the graph, leading to O(n) space complexity.",
		},
	},
	"React": {
		{
			ID:     "react1",
			Prompt: "What is JSX in React?",
			Options: []string{
				"A JavaScript library",
				"A syntax extension that allows writing HTML-like code in JavaScript",
				"A build tool",
				"A React component",
			},
			CorrectOption: "A syntax extension that allows writing HTML-like code in JavaScript",
			Explanation:   "JSX is a syntax extension for JavaScript that looks similar to HTML and makes it easier to write and understand the structure of UI components in React.",
		},
		{
			ID:     "react2",
			Prompt: "What is the purpose of the useState hook?",
			Options: []string{
				"To perform side effects in functional components",
				"To manage state in functional components",
				"To handle form submissions",
				"To create custom hooks",
			},
			CorrectOption: "To manage state in functional components",
			Explanation:   "useState is a React Hook that allows functional components to have local state, returning the current state value and a function to update it.",
		},
		{
			ID:     "react3",
			Prompt: `What is a "key" prop in React lists?`,
			Options: []string{
				"A prop that encrypts component data",
				"A special prop that helps React identify which items have changed, been added, or removed",
				"A prop that defines CSS keys for styling",
				"A prop that manages keyboard events",
			},
			CorrectOption: "A special prop that helps React identify which items have changed, been added, or removed",
			Explanation:   `The "key" prop is a special attribute that helps React efficiently update the DOM when the list changes by uniquely identifying elements.`,
		},
		{
			ID:     "react4",
			Prompt: "What is the correct lifecycle method to make API calls in class components?",
			Options: []string{
				"componentWillMount",
				"componentDidMount",
				"componentWillUpdate",
				"render",
			},
			CorrectOption: "componentDidMount",
			Explanation:   "componentDidMount is called after a component is mounted to the DOM, making it the ideal place to perform initial API calls or subscriptions.",
		},
		{
			ID:     "react5",
			Prompt: "What is the equivalent of componentDidMount when using hooks?",
			Options: []string{
				"useEffect(() => {}, [])",
				"useState()",
				"useContext()",
				"useReducer()",
			},
			CorrectOption: "useEffect(() => {}, [])",
			Explanation:   "useEffect with an empty dependency array runs once after the initial render, similar to componentDidMount in class components.",
		},
	},
}
