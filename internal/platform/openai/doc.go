// Package openai provides the OpenAI-backed implementations of the
// generation.Generator and imaging.Provider interfaces, mapping SDK and
// transport failures onto the application's error taxonomy.
package openai
