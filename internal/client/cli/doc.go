// Package cli is the terminal surface of imgdrop.
//
// It wires configuration, the local history database, the credential issuer
// client, the uploader and the orchestrator, and exposes them as cobra
// commands:
//
//   - upload <file>  select, preview and upload one image
//   - check <file>   validate and preview without touching the network
//   - history        list recent attempts, or show one by attempt id
//   - shell          interactive REPL (select, preview, upload, status, history, show)
//   - version        build version, date and commit
//
// Progress is drawn as a bar redrawn in place when output is a terminal and
// as one line per ten percent otherwise.
package cli
