// Package services implements the driving ports: content loading,
// retrieval, chat orchestration and content auditing. Services depend
// only on domain types and driven port interfaces, never on adapters.
package services
