// Package prompt implements the single-shot operator prompt subsystem
// (C8): issuing a prompt, and delivering exactly one response to the
// registered acceptor before clearing it.
package prompt

import "github.com/liquidrocketry/rcp-target/internal/frame"

// MaxTextLen is the longest prompt text accepted; the wire header can
// carry at most 63 payload bytes, one of which is the type byte.
const MaxTextLen = 62

// Acceptor is invoked exactly once with the delivered PromptData, then
// cleared. At most one acceptor is registered at any instant.
type Acceptor func(frame.PromptData)

// Subsystem tracks the single pending prompt registration.
type Subsystem struct {
	acceptor Acceptor
	lastType frame.PromptDataType
}

// Set registers acceptor for the next PROMPT response and returns the
// outbound prompt-issue frame bytes, or nil if text is too long (no side
// effects in that case, per spec.md §7).
func (s *Subsystem) Set(ch frame.Channel, text string, typ frame.PromptDataType, acceptor Acceptor) []byte {
	if len(text) > MaxTextLen {
		return nil
	}
	s.acceptor = acceptor
	s.lastType = typ
	return frame.EncodePrompt(ch, typ, text)
}

// Reset clears any registered acceptor and returns the outbound
// prompt-reset frame bytes.
func (s *Subsystem) Reset(ch frame.Channel) []byte {
	s.acceptor = nil
	return frame.EncodePromptReset(ch)
}

// Deliver handles one inbound PROMPT frame payload. If no acceptor is
// registered, it is silently ignored (spec.md §4.6). Otherwise the
// payload is interpreted per the last declared type, the acceptor is
// invoked exactly once, and the registration is cleared.
func (s *Subsystem) Deliver(payload []byte) {
	if s.acceptor == nil || len(payload) == 0 {
		return
	}
	var data frame.PromptData
	if s.lastType == frame.PromptGoNoGo {
		data.Bool = payload[0] != 0
	} else if len(payload) >= 4 {
		data.Float = frame.DecodeFloat32(payload)
	}
	acceptor := s.acceptor
	s.acceptor = nil
	acceptor(data)
}
