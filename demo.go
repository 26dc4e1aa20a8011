package odx

import (
	"archive/zip"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
)

// The demo database describes "flip", a fictional seat adjustment ECU
// family speaking UDS. It exercises every part of the data model:
// layer inheritance with overriding and not-inherited filtering, length
// and table keys, matching request parameters and both communication
// parameter container shapes.

// demoLayerDoc is the diagnostic layer container of the flip family.
const demoLayerDoc = `<?xml version="1.0" encoding="UTF-8"?>
<ODX MODEL-VERSION="2.2.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
 <DIAG-LAYER-CONTAINER ID="dlc_flip">
  <SHORT-NAME>flip</SHORT-NAME>
  <LONG-NAME>Flip seat ECU family</LONG-NAME>
  <PROTOCOLS>
   <PROTOCOL ID="dl_uds_on_can">
    <SHORT-NAME>uds_on_can</SHORT-NAME>
    <COMPARAM-SPEC-REF ID-REF="cps_uds_can" DOCREF="uds_can_comparams" DOCTYPE="COMPARAM-SPEC"/>
    <PROT-STACK-SNREF SHORT-NAME="can_stack"/>
   </PROTOCOL>
  </PROTOCOLS>
  <ECU-SHARED-DATAS>
   <ECU-SHARED-DATA ID="dl_flip_shared">
    <SHORT-NAME>flip_shared</SHORT-NAME>
    <DIAG-DATA-DICTIONARY-SPEC>
     <DATA-OBJECT-PROPS>
      <DATA-OBJECT-PROP ID="dop_uint8">
       <SHORT-NAME>dop_uint8</SHORT-NAME>
       <COMPU-METHOD><CATEGORY>IDENTICAL</CATEGORY></COMPU-METHOD>
       <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
       <PHYSICAL-TYPE BASE-DATA-TYPE="A_UINT32"/>
      </DATA-OBJECT-PROP>
      <DATA-OBJECT-PROP ID="dop_uint16">
       <SHORT-NAME>dop_uint16</SHORT-NAME>
       <COMPU-METHOD><CATEGORY>IDENTICAL</CATEGORY></COMPU-METHOD>
       <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>16</BIT-LENGTH></DIAG-CODED-TYPE>
       <PHYSICAL-TYPE BASE-DATA-TYPE="A_UINT32"/>
      </DATA-OBJECT-PROP>
     </DATA-OBJECT-PROPS>
    </DIAG-DATA-DICTIONARY-SPEC>
   </ECU-SHARED-DATA>
  </ECU-SHARED-DATAS>
  <BASE-VARIANTS>
   <BASE-VARIANT ID="dl_flip_base">
    <SHORT-NAME>flip_base</SHORT-NAME>
    <LONG-NAME>Flip base variant</LONG-NAME>
    <FUNCT-CLASSS>
     <FUNCT-CLASS ID="fc_session"><SHORT-NAME>session</SHORT-NAME></FUNCT-CLASS>
     <FUNCT-CLASS ID="fc_flash"><SHORT-NAME>flash</SHORT-NAME></FUNCT-CLASS>
    </FUNCT-CLASSS>
    <DIAG-DATA-DICTIONARY-SPEC>
     <DATA-OBJECT-PROPS>
      <DATA-OBJECT-PROP ID="dop_session">
       <SHORT-NAME>dop_session</SHORT-NAME>
       <COMPU-METHOD>
        <CATEGORY>TEXTTABLE</CATEGORY>
        <COMPU-INTERNAL-TO-PHYS>
         <COMPU-SCALES>
          <COMPU-SCALE><LOWER-LIMIT>1</LOWER-LIMIT><COMPU-CONST><VT>default</VT></COMPU-CONST></COMPU-SCALE>
          <COMPU-SCALE><LOWER-LIMIT>2</LOWER-LIMIT><COMPU-CONST><VT>programming</VT></COMPU-CONST></COMPU-SCALE>
          <COMPU-SCALE><LOWER-LIMIT>3</LOWER-LIMIT><COMPU-CONST><VT>extended</VT></COMPU-CONST></COMPU-SCALE>
         </COMPU-SCALES>
        </COMPU-INTERNAL-TO-PHYS>
       </COMPU-METHOD>
       <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
       <PHYSICAL-TYPE BASE-DATA-TYPE="A_UNICODE2STRING"/>
      </DATA-OBJECT-PROP>
      <DATA-OBJECT-PROP ID="dop_temperature">
       <SHORT-NAME>dop_temperature</SHORT-NAME>
       <COMPU-METHOD>
        <CATEGORY>LINEAR</CATEGORY>
        <COMPU-INTERNAL-TO-PHYS>
         <COMPU-SCALES>
          <COMPU-SCALE>
           <COMPU-RATIONAL-COEFFS>
            <COMPU-NUMERATOR><V>-40</V><V>1</V></COMPU-NUMERATOR>
            <COMPU-DENOMINATOR><V>1</V></COMPU-DENOMINATOR>
           </COMPU-RATIONAL-COEFFS>
          </COMPU-SCALE>
         </COMPU-SCALES>
        </COMPU-INTERNAL-TO-PHYS>
       </COMPU-METHOD>
       <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
       <PHYSICAL-TYPE BASE-DATA-TYPE="A_FLOAT64"/>
       <UNIT-REF ID-REF="unit_celsius"/>
      </DATA-OBJECT-PROP>
      <DATA-OBJECT-PROP ID="dop_identity">
       <SHORT-NAME>dop_identity</SHORT-NAME>
       <COMPU-METHOD><CATEGORY>IDENTICAL</CATEGORY></COMPU-METHOD>
       <DIAG-CODED-TYPE xsi:type="PARAM-LENGTH-INFO-TYPE" BASE-DATA-TYPE="A_ASCIISTRING">
        <LENGTH-KEY-REF ID-REF="par_identity_len"/>
       </DIAG-CODED-TYPE>
       <PHYSICAL-TYPE BASE-DATA-TYPE="A_ASCIISTRING"/>
      </DATA-OBJECT-PROP>
      <DATA-OBJECT-PROP ID="dop_data_chunk">
       <SHORT-NAME>dop_data_chunk</SHORT-NAME>
       <COMPU-METHOD><CATEGORY>IDENTICAL</CATEGORY></COMPU-METHOD>
       <DIAG-CODED-TYPE xsi:type="MIN-MAX-LENGTH-TYPE" BASE-DATA-TYPE="A_BYTEFIELD" TERMINATION="END-OF-PDU">
        <MIN-LENGTH>1</MIN-LENGTH><MAX-LENGTH>4095</MAX-LENGTH>
       </DIAG-CODED-TYPE>
       <PHYSICAL-TYPE BASE-DATA-TYPE="A_BYTEFIELD"/>
      </DATA-OBJECT-PROP>
      <DATA-OBJECT-PROP ID="dop_log_key">
       <SHORT-NAME>dop_log_key</SHORT-NAME>
       <COMPU-METHOD><CATEGORY>IDENTICAL</CATEGORY></COMPU-METHOD>
       <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
       <PHYSICAL-TYPE BASE-DATA-TYPE="A_UINT32"/>
      </DATA-OBJECT-PROP>
     </DATA-OBJECT-PROPS>
     <STRUCTURES>
      <STRUCTURE ID="struct_log_entry">
       <SHORT-NAME>struct_log_entry</SHORT-NAME>
       <PARAMS>
        <PARAM xsi:type="VALUE" SEMANTIC="DATA">
         <SHORT-NAME>timestamp</SHORT-NAME>
         <DOP-SNREF SHORT-NAME="dop_uint16"/>
        </PARAM>
        <PARAM xsi:type="VALUE" SEMANTIC="DATA">
         <SHORT-NAME>temperature</SHORT-NAME>
         <DOP-REF ID-REF="dop_temperature"/>
        </PARAM>
       </PARAMS>
      </STRUCTURE>
     </STRUCTURES>
     <TABLES>
      <TABLE ID="table_flight_log" SEMANTIC="DATA">
       <SHORT-NAME>flight_log</SHORT-NAME>
       <KEY-DOP-REF ID-REF="dop_log_key"/>
       <TABLE-ROW ID="row_forward_flip">
        <SHORT-NAME>forward_flip</SHORT-NAME>
        <KEY>1</KEY>
        <STRUCTURE-REF ID-REF="struct_log_entry"/>
       </TABLE-ROW>
       <TABLE-ROW ID="row_backward_flip">
        <SHORT-NAME>backward_flip</SHORT-NAME>
        <KEY>2</KEY>
        <STRUCTURE-REF ID-REF="struct_log_entry"/>
       </TABLE-ROW>
       <TABLE-ROW ID="row_flip_count">
        <SHORT-NAME>flip_count</SHORT-NAME>
        <KEY>3</KEY>
        <DOP-REF ID-REF="dop_uint8"/>
       </TABLE-ROW>
      </TABLE>
     </TABLES>
     <UNIT-SPEC>
      <UNITS>
       <UNIT ID="unit_celsius">
        <SHORT-NAME>celsius</SHORT-NAME>
        <DISPLAY-NAME>&#176;C</DISPLAY-NAME>
        <FACTOR-SI-TO-UNIT>1</FACTOR-SI-TO-UNIT>
        <OFFSET-SI-TO-UNIT>-273.15</OFFSET-SI-TO-UNIT>
       </UNIT>
      </UNITS>
     </UNIT-SPEC>
    </DIAG-DATA-DICTIONARY-SPEC>
    <DIAG-COMMS>
     <DIAG-SERVICE ID="sv_tester_present" SEMANTIC="TESTERPRESENT">
      <SHORT-NAME>tester_present</SHORT-NAME>
      <FUNCT-CLASS-REFS><FUNCT-CLASS-REF ID-REF="fc_session"/></FUNCT-CLASS-REFS>
      <REQUEST-REF ID-REF="rq_tester_present"/>
      <POS-RESPONSE-REFS><POS-RESPONSE-REF ID-REF="pr_tester_present"/></POS-RESPONSE-REFS>
      <NEG-RESPONSE-REFS><NEG-RESPONSE-REF ID-REF="gnr_general"/></NEG-RESPONSE-REFS>
     </DIAG-SERVICE>
     <DIAG-SERVICE ID="sv_session_start" SEMANTIC="SESSION">
      <SHORT-NAME>session_start</SHORT-NAME>
      <FUNCT-CLASS-REFS><FUNCT-CLASS-REF ID-REF="fc_session"/></FUNCT-CLASS-REFS>
      <REQUEST-REF ID-REF="rq_session_start"/>
      <POS-RESPONSE-REFS><POS-RESPONSE-REF ID-REF="pr_session"/></POS-RESPONSE-REFS>
      <NEG-RESPONSE-REFS><NEG-RESPONSE-REF ID-REF="gnr_general"/></NEG-RESPONSE-REFS>
     </DIAG-SERVICE>
     <DIAG-SERVICE ID="sv_read_identity" SEMANTIC="DATA">
      <SHORT-NAME>read_identity</SHORT-NAME>
      <REQUEST-REF ID-REF="rq_read_identity"/>
      <POS-RESPONSE-REFS><POS-RESPONSE-REF ID-REF="pr_identity"/></POS-RESPONSE-REFS>
      <NEG-RESPONSE-REFS><NEG-RESPONSE-REF ID-REF="gnr_general"/></NEG-RESPONSE-REFS>
     </DIAG-SERVICE>
     <DIAG-SERVICE ID="sv_read_flight_log" SEMANTIC="DATA">
      <SHORT-NAME>read_flight_log</SHORT-NAME>
      <REQUEST-REF ID-REF="rq_read_log"/>
      <POS-RESPONSE-REFS><POS-RESPONSE-REF ID-REF="pr_read_log"/></POS-RESPONSE-REFS>
      <NEG-RESPONSE-REFS><NEG-RESPONSE-REF ID-REF="gnr_general"/></NEG-RESPONSE-REFS>
     </DIAG-SERVICE>
     <DIAG-SERVICE ID="sv_request_download" SEMANTIC="FLASH">
      <SHORT-NAME>request_download</SHORT-NAME>
      <AUDIENCE IS-AFTERSALES="false" IS-AFTERMARKET="false">
       <ENABLED-AUDIENCE-REFS><ENABLED-AUDIENCE-REF ID-REF="aa_flash_tool"/></ENABLED-AUDIENCE-REFS>
      </AUDIENCE>
      <FUNCT-CLASS-REFS><FUNCT-CLASS-REF ID-REF="fc_flash"/></FUNCT-CLASS-REFS>
      <REQUEST-REF ID-REF="rq_request_download"/>
      <POS-RESPONSE-REFS><POS-RESPONSE-REF ID-REF="pr_request_download"/></POS-RESPONSE-REFS>
      <NEG-RESPONSE-REFS><NEG-RESPONSE-REF ID-REF="gnr_general"/></NEG-RESPONSE-REFS>
     </DIAG-SERVICE>
     <DIAG-SERVICE ID="sv_transfer_data" SEMANTIC="FLASH">
      <SHORT-NAME>transfer_data</SHORT-NAME>
      <FUNCT-CLASS-REFS><FUNCT-CLASS-REF ID-REF="fc_flash"/></FUNCT-CLASS-REFS>
      <REQUEST-REF ID-REF="rq_transfer_data"/>
      <POS-RESPONSE-REFS><POS-RESPONSE-REF ID-REF="pr_transfer_data"/></POS-RESPONSE-REFS>
      <NEG-RESPONSE-REFS><NEG-RESPONSE-REF ID-REF="gnr_general"/></NEG-RESPONSE-REFS>
     </DIAG-SERVICE>
     <DIAG-SERVICE ID="sv_transfer_exit" SEMANTIC="FLASH">
      <SHORT-NAME>transfer_exit</SHORT-NAME>
      <FUNCT-CLASS-REFS><FUNCT-CLASS-REF ID-REF="fc_flash"/></FUNCT-CLASS-REFS>
      <REQUEST-REF ID-REF="rq_transfer_exit"/>
      <POS-RESPONSE-REFS><POS-RESPONSE-REF ID-REF="pr_transfer_exit"/></POS-RESPONSE-REFS>
      <NEG-RESPONSE-REFS><NEG-RESPONSE-REF ID-REF="gnr_general"/></NEG-RESPONSE-REFS>
     </DIAG-SERVICE>
     <SINGLE-ECU-JOB ID="job_recover" SEMANTIC="ROUTINE">
      <SHORT-NAME>recover_flip</SHORT-NAME>
      <PROG-CODES>
       <PROG-CODE><CODE-FILE>recover_flip.jar</CODE-FILE><SYNTAX>JAR</SYNTAX><REVISION>1.0</REVISION><ENTRYPOINT>Recover</ENTRYPOINT></PROG-CODE>
      </PROG-CODES>
      <INPUT-PARAMS>
       <INPUT-PARAM>
        <SHORT-NAME>attempts</SHORT-NAME>
        <PHYSICAL-DEFAULT-VALUE>3</PHYSICAL-DEFAULT-VALUE>
        <DOP-BASE-REF ID-REF="dop_uint8"/>
       </INPUT-PARAM>
      </INPUT-PARAMS>
      <OUTPUT-PARAMS>
       <OUTPUT-PARAM>
        <SHORT-NAME>recovered</SHORT-NAME>
        <DOP-BASE-REF ID-REF="dop_uint8"/>
       </OUTPUT-PARAM>
      </OUTPUT-PARAMS>
     </SINGLE-ECU-JOB>
    </DIAG-COMMS>
    <REQUESTS>
     <REQUEST ID="rq_tester_present">
      <SHORT-NAME>rq_tester_present</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>62</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="CODED-CONST">
        <SHORT-NAME>suppress_response</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>0</CODED-VALUE>
       </PARAM>
      </PARAMS>
     </REQUEST>
     <REQUEST ID="rq_session_start">
      <SHORT-NAME>rq_session_start</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>16</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="VALUE" SEMANTIC="DATA">
        <SHORT-NAME>session</SHORT-NAME>
        <PHYSICAL-DEFAULT-VALUE>default</PHYSICAL-DEFAULT-VALUE>
        <DOP-REF ID-REF="dop_session"/>
       </PARAM>
      </PARAMS>
     </REQUEST>
     <REQUEST ID="rq_read_identity">
      <SHORT-NAME>rq_read_identity</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>34</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="ID">
        <SHORT-NAME>did</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>16</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>61840</CODED-VALUE>
       </PARAM>
      </PARAMS>
     </REQUEST>
     <REQUEST ID="rq_read_log">
      <SHORT-NAME>rq_read_log</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>187</CODED-VALUE>
       </PARAM>
      </PARAMS>
     </REQUEST>
     <REQUEST ID="rq_request_download">
      <SHORT-NAME>rq_request_download</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>52</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="VALUE" SEMANTIC="DATA">
        <SHORT-NAME>memory_size</SHORT-NAME>
        <DOP-SNREF SHORT-NAME="dop_uint16"/>
       </PARAM>
      </PARAMS>
     </REQUEST>
     <REQUEST ID="rq_transfer_data">
      <SHORT-NAME>rq_transfer_data</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>54</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="VALUE" SEMANTIC="DATA">
        <SHORT-NAME>block_counter</SHORT-NAME>
        <DOP-SNREF SHORT-NAME="dop_uint8"/>
       </PARAM>
       <PARAM xsi:type="VALUE" SEMANTIC="DATA">
        <SHORT-NAME>data</SHORT-NAME>
        <DOP-REF ID-REF="dop_data_chunk"/>
       </PARAM>
      </PARAMS>
     </REQUEST>
     <REQUEST ID="rq_transfer_exit">
      <SHORT-NAME>rq_transfer_exit</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>55</CODED-VALUE>
       </PARAM>
      </PARAMS>
     </REQUEST>
    </REQUESTS>
    <POS-RESPONSES>
     <POS-RESPONSE ID="pr_tester_present">
      <SHORT-NAME>pr_tester_present</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>126</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="CODED-CONST">
        <SHORT-NAME>status</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>0</CODED-VALUE>
       </PARAM>
      </PARAMS>
     </POS-RESPONSE>
     <POS-RESPONSE ID="pr_session">
      <SHORT-NAME>pr_session</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>80</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="VALUE" SEMANTIC="DATA">
        <SHORT-NAME>session</SHORT-NAME>
        <DOP-REF ID-REF="dop_session"/>
       </PARAM>
      </PARAMS>
     </POS-RESPONSE>
     <POS-RESPONSE ID="pr_identity">
      <SHORT-NAME>pr_identity</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>98</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="ID">
        <SHORT-NAME>did</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>16</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>61840</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="LENGTH-KEY" ID="par_identity_len">
        <SHORT-NAME>identity_length</SHORT-NAME>
        <DOP-SNREF SHORT-NAME="dop_uint8"/>
       </PARAM>
       <PARAM xsi:type="VALUE" SEMANTIC="DATA">
        <SHORT-NAME>identity</SHORT-NAME>
        <DOP-REF ID-REF="dop_identity"/>
       </PARAM>
      </PARAMS>
     </POS-RESPONSE>
     <POS-RESPONSE ID="pr_read_log">
      <SHORT-NAME>pr_read_log</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>251</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="TABLE-KEY" ID="par_log_row">
        <SHORT-NAME>entry_kind</SHORT-NAME>
        <TABLE-SNREF SHORT-NAME="flight_log"/>
       </PARAM>
       <PARAM xsi:type="TABLE-STRUCT" SEMANTIC="DATA">
        <SHORT-NAME>entry</SHORT-NAME>
        <TABLE-KEY-SNREF SHORT-NAME="entry_kind"/>
       </PARAM>
      </PARAMS>
     </POS-RESPONSE>
     <POS-RESPONSE ID="pr_request_download">
      <SHORT-NAME>pr_request_download</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>116</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="VALUE" SEMANTIC="DATA">
        <SHORT-NAME>max_block_length</SHORT-NAME>
        <DOP-SNREF SHORT-NAME="dop_uint16"/>
       </PARAM>
      </PARAMS>
     </POS-RESPONSE>
     <POS-RESPONSE ID="pr_transfer_data">
      <SHORT-NAME>pr_transfer_data</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>118</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="MATCHING-REQUEST-PARAM">
        <SHORT-NAME>block_counter</SHORT-NAME>
        <REQUEST-BYTE-POS>1</REQUEST-BYTE-POS>
        <BYTE-LENGTH>1</BYTE-LENGTH>
       </PARAM>
      </PARAMS>
     </POS-RESPONSE>
     <POS-RESPONSE ID="pr_transfer_exit">
      <SHORT-NAME>pr_transfer_exit</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>119</CODED-VALUE>
       </PARAM>
      </PARAMS>
     </POS-RESPONSE>
    </POS-RESPONSES>
    <GLOBAL-NEG-RESPONSES>
     <GLOBAL-NEG-RESPONSE ID="gnr_general">
      <SHORT-NAME>gnr_general</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>127</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="MATCHING-REQUEST-PARAM">
        <SHORT-NAME>rejected_sid</SHORT-NAME>
        <REQUEST-BYTE-POS>0</REQUEST-BYTE-POS>
        <BYTE-LENGTH>1</BYTE-LENGTH>
       </PARAM>
       <PARAM xsi:type="NRC-CONST">
        <SHORT-NAME>nrc</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUES><CODED-VALUE>16</CODED-VALUE><CODED-VALUE>17</CODED-VALUE><CODED-VALUE>34</CODED-VALUE><CODED-VALUE>49</CODED-VALUE></CODED-VALUES>
       </PARAM>
      </PARAMS>
     </GLOBAL-NEG-RESPONSE>
    </GLOBAL-NEG-RESPONSES>
    <STATE-CHARTS>
     <STATE-CHART ID="chart_session">
      <SHORT-NAME>session_chart</SHORT-NAME>
      <SEMANTIC>SESSION</SEMANTIC>
      <START-STATE-SNREF SHORT-NAME="default_session"/>
      <STATES>
       <STATE ID="st_default"><SHORT-NAME>default_session</SHORT-NAME></STATE>
       <STATE ID="st_programming"><SHORT-NAME>programming_session</SHORT-NAME></STATE>
      </STATES>
      <STATE-TRANSITIONS>
       <STATE-TRANSITION ID="str_enter_programming">
        <SHORT-NAME>enter_programming</SHORT-NAME>
        <SOURCE-SNREF SHORT-NAME="default_session"/>
        <TARGET-SNREF SHORT-NAME="programming_session"/>
       </STATE-TRANSITION>
       <STATE-TRANSITION ID="str_leave_programming">
        <SHORT-NAME>leave_programming</SHORT-NAME>
        <SOURCE-SNREF SHORT-NAME="programming_session"/>
        <TARGET-SNREF SHORT-NAME="default_session"/>
       </STATE-TRANSITION>
      </STATE-TRANSITIONS>
     </STATE-CHART>
    </STATE-CHARTS>
    <ADDITIONAL-AUDIENCES>
     <ADDITIONAL-AUDIENCE ID="aa_flash_tool"><SHORT-NAME>flash_tool</SHORT-NAME></ADDITIONAL-AUDIENCE>
    </ADDITIONAL-AUDIENCES>
    <PARENT-REFS>
     <PARENT-REF xsi:type="PROTOCOL-REF" ID-REF="dl_uds_on_can"/>
     <PARENT-REF xsi:type="ECU-SHARED-DATA-REF" ID-REF="dl_flip_shared"/>
    </PARENT-REFS>
   </BASE-VARIANT>
  </BASE-VARIANTS>
  <ECU-VARIANTS>
   <ECU-VARIANT ID="dl_flip_front">
    <SHORT-NAME>flip_front</SHORT-NAME>
    <DIAG-DATA-DICTIONARY-SPEC>
     <DATA-OBJECT-PROPS>
      <DATA-OBJECT-PROP ID="dop_seat_count">
       <SHORT-NAME>dop_seat_count</SHORT-NAME>
       <COMPU-METHOD><CATEGORY>IDENTICAL</CATEGORY></COMPU-METHOD>
       <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
       <PHYSICAL-TYPE BASE-DATA-TYPE="A_UINT32"/>
      </DATA-OBJECT-PROP>
     </DATA-OBJECT-PROPS>
    </DIAG-DATA-DICTIONARY-SPEC>
    <DIAG-COMMS>
     <DIAG-SERVICE ID="sv_front_tester_present" SEMANTIC="TESTERPRESENT-FAST">
      <SHORT-NAME>tester_present</SHORT-NAME>
      <REQUEST-REF ID-REF="rq_tester_present"/>
      <POS-RESPONSE-REFS><POS-RESPONSE-REF ID-REF="pr_tester_present"/></POS-RESPONSE-REFS>
     </DIAG-SERVICE>
     <DIAG-SERVICE ID="sv_seat_info" SEMANTIC="DATA">
      <SHORT-NAME>seat_info</SHORT-NAME>
      <REQUEST-REF ID-REF="rq_seat_info"/>
      <POS-RESPONSE-REFS><POS-RESPONSE-REF ID-REF="pr_seat_info"/></POS-RESPONSE-REFS>
     </DIAG-SERVICE>
    </DIAG-COMMS>
    <REQUESTS>
     <REQUEST ID="rq_seat_info">
      <SHORT-NAME>rq_seat_info</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>188</CODED-VALUE>
       </PARAM>
      </PARAMS>
     </REQUEST>
    </REQUESTS>
    <POS-RESPONSES>
     <POS-RESPONSE ID="pr_seat_info">
      <SHORT-NAME>pr_seat_info</SHORT-NAME>
      <PARAMS>
       <PARAM xsi:type="CODED-CONST" SEMANTIC="SERVICE-ID">
        <SHORT-NAME>sid</SHORT-NAME>
        <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>8</BIT-LENGTH></DIAG-CODED-TYPE>
        <CODED-VALUE>252</CODED-VALUE>
       </PARAM>
       <PARAM xsi:type="VALUE" SEMANTIC="DATA">
        <SHORT-NAME>seat_count</SHORT-NAME>
        <DOP-REF ID-REF="dop_seat_count"/>
       </PARAM>
      </PARAMS>
     </POS-RESPONSE>
    </POS-RESPONSES>
    <PARENT-REFS>
     <PARENT-REF xsi:type="BASE-VARIANT-REF" ID-REF="dl_flip_base"/>
    </PARENT-REFS>
   </ECU-VARIANT>
   <ECU-VARIANT ID="dl_flip_rear">
    <SHORT-NAME>flip_rear</SHORT-NAME>
    <PARENT-REFS>
     <PARENT-REF xsi:type="BASE-VARIANT-REF" ID-REF="dl_flip_base">
      <NOT-INHERITED-DIAG-COMMS>
       <NOT-INHERITED-DIAG-COMM><DIAG-COMM-SNREF SHORT-NAME="request_download"/></NOT-INHERITED-DIAG-COMM>
       <NOT-INHERITED-DIAG-COMM><DIAG-COMM-SNREF SHORT-NAME="transfer_data"/></NOT-INHERITED-DIAG-COMM>
       <NOT-INHERITED-DIAG-COMM><DIAG-COMM-SNREF SHORT-NAME="transfer_exit"/></NOT-INHERITED-DIAG-COMM>
      </NOT-INHERITED-DIAG-COMMS>
     </PARENT-REF>
    </PARENT-REFS>
   </ECU-VARIANT>
  </ECU-VARIANTS>
 </DIAG-LAYER-CONTAINER>
</ODX>
`

// demoComparamSpecDoc selects the protocol stack for UDS on CAN. The
// split shape of model version 2.2: the spec only holds stacks, the
// parameters live in subset documents.
const demoComparamSpecDoc = `<?xml version="1.0" encoding="UTF-8"?>
<ODX MODEL-VERSION="2.2.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
 <COMPARAM-SPEC ID="cps_uds_can">
  <SHORT-NAME>uds_can_comparams</SHORT-NAME>
  <PROT-STACKS>
   <PROT-STACK ID="ps_can_stack">
    <SHORT-NAME>can_stack</SHORT-NAME>
    <PDU-PROTOCOL-TYPE>ISO_15765_3</PDU-PROTOCOL-TYPE>
    <PHYSICAL-LINK-TYPE>ISO_11898_2_DWCAN</PHYSICAL-LINK-TYPE>
    <COMPARAM-SUBSET-REFS>
     <COMPARAM-SUBSET-REF ID-REF="cpss_uds_can" DOCREF="uds_can_subset" DOCTYPE="COMPARAM-SUBSET"/>
    </COMPARAM-SUBSET-REFS>
   </PROT-STACK>
  </PROT-STACKS>
 </COMPARAM-SPEC>
</ODX>
`

// demoComparamSubsetDoc holds the CAN addressing parameters referenced
// by the protocol stack.
const demoComparamSubsetDoc = `<?xml version="1.0" encoding="UTF-8"?>
<ODX MODEL-VERSION="2.2.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
 <COMPARAM-SUBSET ID="cpss_uds_can" CATEGORY="ISO_15765_3">
  <SHORT-NAME>uds_can_subset</SHORT-NAME>
  <COMPARAMS>
   <COMPARAM ID="cp_can_phys_req_id" PARAM-CLASS="COM" CPTYPE="STANDARD" CPUSAGE="ECU-COMM">
    <SHORT-NAME>CP_CanPhysReqId</SHORT-NAME>
    <PHYSICAL-DEFAULT-VALUE>2016</PHYSICAL-DEFAULT-VALUE>
    <DATA-OBJECT-PROP-REF ID-REF="dop_cp_uint32"/>
   </COMPARAM>
   <COMPARAM ID="cp_can_resp_id" PARAM-CLASS="COM" CPTYPE="STANDARD" CPUSAGE="ECU-COMM">
    <SHORT-NAME>CP_CanRespUSDTId</SHORT-NAME>
    <PHYSICAL-DEFAULT-VALUE>2024</PHYSICAL-DEFAULT-VALUE>
    <DATA-OBJECT-PROP-REF ID-REF="dop_cp_uint32"/>
   </COMPARAM>
  </COMPARAMS>
  <DATA-OBJECT-PROPS>
   <DATA-OBJECT-PROP ID="dop_cp_uint32">
    <SHORT-NAME>dop_cp_uint32</SHORT-NAME>
    <COMPU-METHOD><CATEGORY>IDENTICAL</CATEGORY></COMPU-METHOD>
    <DIAG-CODED-TYPE xsi:type="STANDARD-LENGTH-TYPE" BASE-DATA-TYPE="A_UINT32"><BIT-LENGTH>32</BIT-LENGTH></DIAG-CODED-TYPE>
    <PHYSICAL-TYPE BASE-DATA-TYPE="A_UINT32"/>
   </DATA-OBJECT-PROP>
  </DATA-OBJECT-PROPS>
 </COMPARAM-SUBSET>
</ODX>
`

// demoLegacyComparamDoc exercises the inline container shape used
// before model version 2.2: the spec holds the parameters itself.
const demoLegacyComparamDoc = `<?xml version="1.0" encoding="UTF-8"?>
<ODX MODEL-VERSION="2.0.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
 <COMPARAM-SPEC ID="cps_legacy">
  <SHORT-NAME>legacy_comparams</SHORT-NAME>
  <COMPARAMS>
   <COMPARAM ID="cp_request_timeout" PARAM-CLASS="TIMING" CPTYPE="STANDARD" CPUSAGE="ECU-COMM">
    <SHORT-NAME>CP_RequestTimeout</SHORT-NAME>
    <PHYSICAL-DEFAULT-VALUE>500</PHYSICAL-DEFAULT-VALUE>
   </COMPARAM>
   <COMPARAM ID="cp_tester_present_time" PARAM-CLASS="TIMING" CPTYPE="STANDARD" CPUSAGE="ECU-COMM">
    <SHORT-NAME>CP_TesterPresentTime</SHORT-NAME>
    <PHYSICAL-DEFAULT-VALUE>2000</PHYSICAL-DEFAULT-VALUE>
   </COMPARAM>
  </COMPARAMS>
 </COMPARAM-SPEC>
</ODX>
`

// DemoDocuments returns the documents of the built-in flip example
// database.
func DemoDocuments() []Document {
	return []Document{
		{Name: "flip.odx-d", Data: []byte(demoLayerDoc)},
		{Name: "uds_can_comparams.odx-c", Data: []byte(demoComparamSpecDoc)},
		{Name: "uds_can_subset.odx-cs", Data: []byte(demoComparamSubsetDoc)},
		{Name: "legacy_comparams.odx-c", Data: []byte(demoLegacyComparamDoc)},
	}
}

// LoadDemoDatabase loads the built-in flip example database.
func LoadDemoDatabase() (*Database, error) {
	return NewDatabase(LoadOptions{Documents: DemoDocuments(), Strict: true})
}

// WriteDemoPDX writes the demo documents as a PDX container to the
// given path.
func WriteDemoPDX(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating PDX container")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing PDX container")
		}
	}()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})
	for _, doc := range DemoDocuments() {
		w, err := zw.Create(doc.Name)
		if err != nil {
			return errors.Wrapf(err, "adding container member %s", doc.Name)
		}
		if _, err := w.Write(doc.Data); err != nil {
			return errors.Wrapf(err, "writing container member %s", doc.Name)
		}
	}
	return errors.Wrap(zw.Close(), "finishing PDX container")
}
