package sqlite

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				email TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);

			CREATE TABLE bots (
				id TEXT PRIMARY KEY,
				user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				description TEXT,
				telegram_token TEXT,
				is_active BOOLEAN NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);

			CREATE INDEX idx_bots_user_id ON bots(user_id);

			CREATE TABLE bot_flows (
				id TEXT PRIMARY KEY,
				bot_id TEXT NOT NULL REFERENCES bots(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				description TEXT,
				flow_data TEXT NOT NULL,
				is_main BOOLEAN NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);

			CREATE INDEX idx_bot_flows_bot_id ON bot_flows(bot_id);

			CREATE TABLE bot_sessions (
				id TEXT PRIMARY KEY,
				bot_id TEXT NOT NULL REFERENCES bots(id) ON DELETE CASCADE,
				telegram_user_id TEXT NOT NULL,
				current_node TEXT,
				session_data TEXT,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE (bot_id, telegram_user_id)
			);

			CREATE TABLE templates (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT,
				category TEXT NOT NULL,
				flow_data TEXT NOT NULL,
				is_public BOOLEAN NOT NULL DEFAULT 0,
				created_by INTEGER REFERENCES users(id) ON DELETE SET NULL,
				created_at DATETIME NOT NULL
			);

			CREATE INDEX idx_templates_is_public ON templates(is_public);
		`,
	}
}
