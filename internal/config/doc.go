// Package config reads table configuration from YAML files.
//
// A file is a third way to configure a mapper.Builder, next to struct tags
// and the fluent API. Apply replays each entry through the fluent API, so
// the same validation and precedence rules hold.
//
// Example:
//
//	version: "1"
//	conventions: snake
//	nested: [hr.Address]
//	tables:
//	  - type: hr.Employee
//	    table: employees
//	    primary_key: ID
//	    foreign_keys:
//	      - {path: Department, name: dept_id}
//	    columns:
//	      Home: {name: home, partial: true}
//	      Home.Street: street
//	metadata_processors:
//	  - always_inherit: [owner]
package config
