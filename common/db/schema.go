package db

import (
	"context"
	"fmt"
)

// ApplySchema creates all tables needed by the portal.
// Safe to call multiple times - uses IF NOT EXISTS.
func ApplySchema(ctx context.Context, db *DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const schema = `
-- Members (identity owned by the auth provider; ledger fields owned by the
-- delegation workflow)
CREATE TABLE IF NOT EXISTS member (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    position TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    contact JSONB NOT NULL DEFAULT '{}',
    fcm_tokens JSONB NOT NULL DEFAULT '[]',
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved')),
    vote_weight INTEGER NOT NULL DEFAULT 0 CHECK (vote_weight >= 0),
    delegated_to_id TEXT,
    delegated_to_name TEXT,
    delegation_event_id UUID,
    delegation_status TEXT NOT NULL DEFAULT 'none' CHECK (delegation_status IN ('none', 'pending', 'approved')),
    delegated_from JSONB NOT NULL DEFAULT '[]',
    version BIGINT NOT NULL DEFAULT 1,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_member_status ON member(status);

-- Governance events (conferences)
CREATE TABLE IF NOT EXISTS event (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    scheduled_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_event_scheduled_at ON event(scheduled_at);

-- Proxy-vote delegation requests
CREATE TABLE IF NOT EXISTS delegation_request (
    id UUID PRIMARY KEY,
    from_id TEXT NOT NULL,
    from_name TEXT NOT NULL,
    to_id TEXT NOT NULL,
    to_name TEXT NOT NULL,
    proof_ref TEXT,
    event_id UUID NOT NULL,
    event_title TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected', 'concluded')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    decided_at TIMESTAMPTZ,
    decided_by TEXT,
    CHECK (from_id <> to_id)
);

CREATE INDEX IF NOT EXISTS idx_delegation_request_status ON delegation_request(status);
CREATE INDEX IF NOT EXISTS idx_delegation_request_from ON delegation_request(from_id);
CREATE INDEX IF NOT EXISTS idx_delegation_request_to ON delegation_request(to_id);
CREATE INDEX IF NOT EXISTS idx_delegation_request_event ON delegation_request(event_id);

-- News feed
CREATE TABLE IF NOT EXISTS news (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Union team roster
CREATE TABLE IF NOT EXISTS team_member (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    role TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Link repository
CREATE TABLE IF NOT EXISTS link (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Document templates (file payload lives in the blob store)
CREATE TABLE IF NOT EXISTS template (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    file_name TEXT NOT NULL,
    blob_ref TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Member support requests
CREATE TABLE IF NOT EXISTS support_request (
    id UUID PRIMARY KEY,
    member_id TEXT NOT NULL,
    member_email TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new', 'answered')),
    reply TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    answered_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_support_request_member ON support_request(member_id);
`
