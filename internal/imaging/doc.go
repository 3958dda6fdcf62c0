// Package imaging provides the image acquisition client: given a textual
// prompt it obtains a generated image from a remote image-generation
// provider, retrying transient failures with exponential backoff, and
// degrades to a locally synthesized placeholder image when the provider
// is exhausted or rejects the prompt. Remote failures are never surfaced
// to the caller; every acquisition resolves to exactly one result.
package imaging
