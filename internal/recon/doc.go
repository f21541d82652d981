// Package recon runs a fixed set of external reconnaissance tools against a
// target and summarizes what they printed into a review checklist.
//
// Collection never fails because a tool is missing: the section simply
// records "<tool> not installed". The raw report round-trips through a plain
// text form ("Reconnaissance Report for X" followed by "=== Section ==="
// blocks) and JSON.
//
//	o := recon.NewOrchestrator(recon.ExecRunner{}, log)
//	raw, err := o.Collect(ctx, "example.com")
//	sum := recon.Summarize(raw, "", time.Now())
//	out, _ := recon.Render([]recon.Summary{sum}, recon.FormatTextName, false)
package recon
