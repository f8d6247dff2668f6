// Command agentctl is a terminal client for the article agent. It streams
// answers the same way the chat page does and keeps the conversation history
// for follow-up questions.
package main

func main() {
	Execute()
}
