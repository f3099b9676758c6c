/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package intake

// sceneSchema validates the wrapped {"elements": [...]} form. A bare array is
// wrapped before validation.
const sceneSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "modcanvas scene",
  "type": "object",
  "required": ["elements"],
  "properties": {
    "elements": {
      "type": "array",
      "items": { "$ref": "#/definitions/element" }
    }
  },
  "definitions": {
    "element": {
      "type": "object",
      "required": ["id", "type", "position", "size"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "type": { "enum": ["button", "container", "text", "image", "input", "card"] },
        "position": {
          "type": "object",
          "required": ["x", "y"],
          "properties": { "x": { "type": "number" }, "y": { "type": "number" } }
        },
        "size": {
          "type": "object",
          "required": ["width", "height"],
          "properties": { "width": { "type": "number" }, "height": { "type": "number" } }
        },
        "properties": {
          "type": "object",
          "properties": {
            "children": { "type": "array", "items": { "type": "string" } },
            "visible": { "type": "boolean" },
            "text": { "type": "string" },
            "backgroundColor": { "type": "string" },
            "textColor": { "type": "string" },
            "borderRadius": { "type": "number" },
            "padding": { "type": "number" },
            "fontSize": { "type": "number" },
            "fontWeight": { "enum": ["normal", "medium", "semibold", "bold"] },
            "imageUrl": { "type": "string" }
          }
        },
        "stage": { "type": "string" },
        "zIndex": { "type": "integer" }
      }
    }
  }
}`
