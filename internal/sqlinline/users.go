package sqlinline

const QInsertUser = `--sql 5a82e2ad-7b09-40c5-9d22-2d28db58c0f0
insert into users (id, email, password_hash, api_key, created_at, updated_at)
values (gen_random_uuid(), lower($1::text), $2::text, $3::text, now(), now())
returning id, email, password_hash, api_key, created_at, updated_at;
`

const QSelectUserByEmail = `--sql 1239018e-4f5f-46a0-8f0d-81b2a3a5f0f8
select id, email, password_hash, api_key, created_at, updated_at
from users
where email = lower($1::text)
limit 1;
`

const QSelectUserByAPIKey = `--sql 7c0f4c1e-2b9a-4d3e-9f61-0e4b5d2a8c17
select id, email, password_hash, api_key, created_at, updated_at
from users
where api_key = $1::text
limit 1;
`
