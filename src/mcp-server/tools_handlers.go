// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/H0llyW00dzZ/devca/src/internal/authority"
	"github.com/H0llyW00dzZ/devca/src/internal/config"
	"github.com/H0llyW00dzZ/devca/src/internal/ledger"
	x509certs "github.com/H0llyW00dzZ/devca/src/internal/x509/certs"
	x509chain "github.com/H0llyW00dzZ/devca/src/internal/x509/chain"
)

// toolHandlers implements the tools over one authority.
type toolHandlers struct {
	cfg  *config.Config
	auth *authority.Authority
}

// handleCreateCA creates or loads the CA hierarchy.
func (h *toolHandlers) handleCreateCA(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reset := request.GetBool("reset", false)

	hierarchy, err := h.auth.LoadCA(ctx, reset)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load CA: %v", err)), nil
	}

	layout := h.auth.Layout()
	var b strings.Builder
	fmt.Fprintf(&b, "Root CA %q (%s): %s\n", hierarchy.Root.Subject.CommonName, created(hierarchy.RootCreated), layout.CACert())
	fmt.Fprintf(&b, "Intermediate CA %q (%s): %s\n", hierarchy.Intermediate.Subject.CommonName, created(hierarchy.IntermediateCreated), layout.IntermediateCert())
	fmt.Fprintf(&b, "Root CA valid until %s\n", hierarchy.Root.NotAfter.UTC().Format(time.RFC3339))
	return mcp.NewToolResultText(b.String()), nil
}

func created(ok bool) string {
	if ok {
		return "created"
	}
	return "loaded"
}

// issueResult is the JSON body of a successful issue_server_certificate call.
type issueResult struct {
	Entry           ledger.Entry `json:"entry"`
	KeyPath         string       `json:"key_path"`
	CertificatePath string       `json:"certificate_path"`
	ChainPath       string       `json:"full_chain_path"`
	CertificatePEM  string       `json:"certificate_pem"`
}

// handleIssueServer issues a server certificate. Subject attributes default
// to the configuration; any attribute present in the arguments replaces it,
// the empty string included.
func (h *toolHandlers) handleIssueServer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	commonName, err := request.RequireString("common_name")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("common_name parameter required: %v", err)), nil
	}

	name := h.cfg.Name().WithCommonName(commonName)
	args := request.GetArguments()
	for _, o := range []struct {
		key   string
		field *string
	}{
		{"country", &name.Country},
		{"state", &name.Province},
		{"locality", &name.Locality},
		{"org", &name.Organization},
		{"org_unit", &name.OrganizationalUnit},
	} {
		if _, ok := args[o.key]; ok {
			*o.field = request.GetString(o.key, "")
		}
	}

	altNames := request.GetStringSlice("alt_names", nil)
	if len(altNames) == 0 {
		return mcp.NewToolResultError("alt_names parameter requires at least one DNS name"), nil
	}

	issued, err := h.auth.IssueServer(ctx, name, altNames)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to issue certificate: %v", err)), nil
	}

	data, err := json.MarshalIndent(issueResult{
		Entry:           issued.Entry,
		KeyPath:         issued.KeyPath,
		CertificatePath: issued.CertPath,
		ChainPath:       issued.ChainPath,
		CertificatePEM:  string(x509certs.New().EncodePEM(issued.Cert)),
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleListCertificates returns the issuance ledger.
func (h *toolHandlers) handleListCertificates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.auth.List()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read ledger: %v", err)), nil
	}

	switch format := request.GetString("format", "json"); format {
	case "json":
		if entries == nil {
			entries = []ledger.Entry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode ledger: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	case "table":
		if len(entries) == 0 {
			return mcp.NewToolResultText("No certificates issued"), nil
		}
		now := time.Now()
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			status := x509chain.StatusValid
			if e.Expired(now) {
				status = x509chain.StatusExpired
			}
			rows = append(rows, []string{e.Tier, e.CommonName, e.Serial, e.NotAfter.Format("2006-01-02"), status})
		}
		table, err := x509chain.RenderMarkdown([]string{"Tier", "Common Name", "Serial", "Valid Until", "Status"}, rows)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render ledger: %v", err)), nil
		}
		return mcp.NewToolResultText(table), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", format)), nil
	}
}

// handleVerifyCertificate verifies a stored server certificate. A failed
// verification still renders the chain ahead of the reason.
func (h *toolHandlers) handleVerifyCertificate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	commonName, err := request.RequireString("common_name")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("common_name parameter required: %v", err)), nil
	}

	ch, verifyErr := h.auth.Verify(ctx, commonName)
	if ch == nil {
		return mcp.NewToolResultError(fmt.Sprintf("verification failed: %v", verifyErr)), nil
	}

	now := time.Now()
	var rendered string
	switch format := request.GetString("format", "tree"); format {
	case "tree":
		rendered = ch.RenderASCIITree(now)
	case "table":
		table, err := ch.RenderTable(now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render chain: %v", err)), nil
		}
		rendered = table
	case "json":
		data, err := ch.ToVisualizationJSON(now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode chain: %v", err)), nil
		}
		rendered = string(data)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", format)), nil
	}

	if verifyErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s\nverification failed: %v", rendered, verifyErr)), nil
	}
	return mcp.NewToolResultText(rendered), nil
}
