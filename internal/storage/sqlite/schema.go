package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS listings (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    slug           TEXT NOT NULL,
    root_slug      TEXT NOT NULL DEFAULT '',
    category_slug  TEXT NOT NULL DEFAULT '',
    category_json  TEXT NOT NULL DEFAULT '',
    price          REAL,
    owner_id       TEXT NOT NULL DEFAULT '',
    attributes     TEXT NOT NULL DEFAULT '{}',
    metadata       TEXT NOT NULL DEFAULT '{}',
    thumbnail_url  TEXT NOT NULL DEFAULT '',
    thumbnail_alt  TEXT NOT NULL DEFAULT '',
    created_at     TEXT NOT NULL DEFAULT '',
    updated_at     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_listings_root_slug ON listings(root_slug);
CREATE INDEX IF NOT EXISTS idx_listings_owner ON listings(root_slug, owner_id);
`

const listingColumns = `id, name, slug, category_json, price, attributes, metadata,
    thumbnail_url, thumbnail_alt, created_at, updated_at`

const upsertListingSQL = `
INSERT INTO listings (id, name, slug, root_slug, category_slug, category_json, price, owner_id,
    attributes, metadata, thumbnail_url, thumbnail_alt, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    slug = excluded.slug,
    root_slug = excluded.root_slug,
    category_slug = excluded.category_slug,
    category_json = excluded.category_json,
    price = excluded.price,
    owner_id = excluded.owner_id,
    attributes = excluded.attributes,
    metadata = excluded.metadata,
    thumbnail_url = excluded.thumbnail_url,
    thumbnail_alt = excluded.thumbnail_alt,
    created_at = excluded.created_at,
    updated_at = excluded.updated_at
`
