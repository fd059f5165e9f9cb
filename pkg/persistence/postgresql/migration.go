package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE users (
				id BIGSERIAL PRIMARY KEY,
				email VARCHAR(255) NOT NULL UNIQUE,
				name VARCHAR(255) NOT NULL,
				password_hash VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE TABLE bots (
				id UUID PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				description TEXT,
				telegram_token VARCHAR(255),
				is_active BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_bots_user_id ON bots(user_id);

			CREATE TABLE bot_flows (
				id UUID PRIMARY KEY,
				bot_id UUID NOT NULL REFERENCES bots(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				description TEXT,
				flow_data TEXT NOT NULL,
				is_main BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_bot_flows_bot_id ON bot_flows(bot_id);

			CREATE TABLE bot_sessions (
				id UUID PRIMARY KEY,
				bot_id UUID NOT NULL REFERENCES bots(id) ON DELETE CASCADE,
				telegram_user_id VARCHAR(255) NOT NULL,
				current_node VARCHAR(255),
				session_data TEXT,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				UNIQUE (bot_id, telegram_user_id)
			);

			CREATE TABLE templates (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT,
				category VARCHAR(100) NOT NULL,
				flow_data TEXT NOT NULL,
				is_public BOOLEAN NOT NULL DEFAULT FALSE,
				created_by BIGINT REFERENCES users(id) ON DELETE SET NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_templates_is_public ON templates(is_public);
		`,
	}
}
