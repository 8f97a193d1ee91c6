// Package assemblyai is the AssemblyAI implementation of transcription.Provider.
package assemblyai
