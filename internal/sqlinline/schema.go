package sqlinline

// QCreateSchema creates the tables the relay needs. It is idempotent and runs
// at startup.
const QCreateSchema = `--sql 3e9b1f0a-6d47-4c2b-8a15-b7e2c9d04f63
create table if not exists users (
    id uuid primary key,
    email text not null unique,
    password_hash text not null,
    api_key text not null unique,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create table if not exists integration_tokens (
    id uuid primary key,
    provider text not null unique,
    token text not null,
    properties jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
`
