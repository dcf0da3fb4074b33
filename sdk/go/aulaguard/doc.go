// Package aulaguard provides in-process governance for AI tutoring
// platforms. Every student message is sanitized, classified and gated by a
// traffic-light semaphore before any model is allowed to answer it; total
// delegation ("write it all for me") is rejected instead of served.
//
// Usage:
//
//	ag, err := aulaguard.New(aulaguard.WithConfig("governance.yaml"))
//	result := ag.Evaluate(aulaguard.Request{
//	    Message: "dame el código completo para un árbol binario",
//	})
//	if result.Blocked {
//	    // show result.BlockReason instead of calling the model
//	}
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/cortezalberto/aulaguard/sdk/go/aulaguard.
package aulaguard
