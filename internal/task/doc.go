// Package task provides the background processing machinery for article
// generation: the Task abstraction, a persisted task runner with crash
// recovery, and the article generation task itself.
package task
