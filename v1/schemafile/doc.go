// Package schemafile manages schema files and the schema-management
// configuration on local disk.
//
// Config files are JSON with camelCase keys, or YAML when the file name ends
// in .yaml/.yml:
//
//	{
//	  "registryUrl": "http://localhost:8081",
//	  "schemasDirectory": "schemas",
//	  "outputDirectory": "generated",
//	  "defaultNamespace": "generated",
//	  "topicBindings": [
//	    {
//	      "topicName": "order-events",
//	      "subject": "order-events-value",
//	      "schemaFile": "schemas/order-event.schema.json",
//	      "namespace": "generated",
//	      "schemaType": "JSON"
//	    }
//	  ]
//	}
package schemafile
