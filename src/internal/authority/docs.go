// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package authority runs the CA hierarchy stored in one configuration
// directory.
//
// It decides per tier whether to create or load the root and intermediate,
// issues server certificates signed by the intermediate and keeps the
// issuance ledger in step with the files on disk.
//
// # Files
//
// Every artifact lives in the configuration directory, named by
// [config.Layout]:
//
//	ca.key.pem               root key, 0600
//	ca.cert.pem              root certificate, 0644
//	intermediate.key.pem     intermediate key, 0600
//	intermediate.cert.pem    intermediate certificate, 0644
//	com.example.*.key.pem    server key for *.example.com, 0600
//	com.example.*.cert.pem   server certificate for *.example.com, 0644
//	com.example.*.fullchain.pem
//	                         server, intermediate and root certificates, 0644
//	ledger.db                issuance ledger
//
// Writes are not atomic. A failure part way through a command leaves the
// files written before it in place; rerunning the command replaces them.
//
// # Logging
//
// The certificate packages never log. With verbose reporting enabled the
// authority prints one line per written file through [logger.Logger].
//
// # Usage
//
//	cfg, err := config.Load(dir)
//	if err != nil {
//		return err
//	}
//	auth := authority.New(cfg, authority.WithLogger(log, verbose))
//	issued, err := auth.IssueServer(ctx, cfg.Name().WithCommonName("*.example.com"), []string{"*.another.com"})
package authority
