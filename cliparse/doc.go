// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment
variables.

Flags win over environment variables; secrets should come from the
environment (or a .env file loaded in main).

Required:

  - GATEWAY_URL (-gateway-url): persistence gateway base URL
  - GATEWAY_KEY: gateway API key
  - SIGNING_SECRET (-signing-secret): HMAC secret for session tokens
  - ADMIN_PASSWORD, SUPERADMIN_PASSWORD: tier credentials
  - IDENTITY_URL (-identity-url): national identity lookup service

Optional:

  - PORT (-p): server port (default 8080)
  - GATEWAY_SERVICE_KEY: service-role key for writes (defaults to
    GATEWAY_KEY)
  - GATEWAY_TIMEOUT (-gateway-timeout): per-call timeout (default 10s)
  - REDIS_ADDR (-redis): external token registry; empty selects the
    in-process map
  - IDENTITY_KEY (-identity-key): identity lookup API key
  - DUPLICATE_POLICY (-duplicate-policy): "newest" (default) or "oldest"
*/
package cliparse
